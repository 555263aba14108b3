package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathanhack/secded/cmd/internal/tools"
	"github.com/spf13/cobra"
)

var OutputFile string
var MessageError bool
var SilentError bool

var CSVRun = func(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("requires at least one RESULTS_JSON")
		return
	}

	stats, err := tools.LoadAllResults(args)
	if err != nil {
		fmt.Println(err)
		return
	}

	f, err := os.Create(OutputFile)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	//first write headers
	parameters := tools.Parameters(stats)
	header := []string{"Results File"}
	for _, p := range parameters {
		header = append(header, fmt.Sprintf("%v", p))
	}

	err = w.Write(header)
	if err != nil {
		fmt.Println(err)
		return
	}

	for i, s := range stats {
		record := make([]string, len(header))
		record[0] = strings.TrimSuffix(args[i], filepath.Ext(args[i]))

		for j, p := range parameters {
			v, has := s.Stats[p]
			if has {
				switch {
				case MessageError:
					record[j+1] = fmt.Sprintf("%v", v.MessageError.Mean)
				case SilentError:
					record[j+1] = fmt.Sprintf("%v", v.Silent.Mean)
				default:
					record[j+1] = fmt.Sprintf("%v", v.Correct.Mean)
				}
			}
		}

		err = w.Write(record)
		if err != nil {
			fmt.Println(err)
			return
		}
	}
}
