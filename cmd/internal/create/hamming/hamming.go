package hamming

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nathanhack/secded/hamming"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	MessageBits uint
	Extended    bool
	Verbose     bool
)

var HammingRun = func(cmd *cobra.Command, args []string) {
	if Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	code := hamming.New(int(MessageBits), Extended)
	if !code.Validate() {
		fmt.Println("Unable to create a valid hamming code")
		return
	}
	logrus.Infof("Hamming Message Size:%v Parity Size:%v Codeword Size:%v Code Rate: %v Extended: %v",
		code.MessageLength(), code.ParitySymbols(), code.CodewordLength(), code.CodeRate(), code.Extended)

	bs, err := json.Marshal(code)
	if err != nil {
		fmt.Println("Unable to serialize the hamming code: ", err)
		return
	}

	err = os.WriteFile(args[0], bs, 0644)
	if err != nil {
		fmt.Println("unable to write file: ", err)
	}
}
