package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	darf "github.com/fiscaldocs/darf-parser-go"
)

type output struct {
	Charges   []darf.Charge   `json:"charges"`
	LineItems []darf.LineItem `json:"line_items"`
	Barcode   string          `json:"barcode,omitempty"`
}

func main() {
	var (
		gapThreshold  float64
		decodeBarcode bool
		debug         bool
		orderID       string
	)

	root := &cobra.Command{
		Use:   "darf-parser <pdf>",
		Short: "Extract tax charges from a DARF or Situação Fiscal PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.Default()
			if debug {
				logger.SetLevel(log.DebugLevel)
			}

			parser := darf.NewParserWith(darf.Config{
				GapThreshold:  gapThreshold,
				DecodeBarcode: decodeBarcode,
				Debug:         debug,
				Logger:        logger,
			})

			result, err := parser.ParseFile(args[0])
			if err != nil {
				return err
			}

			out := output{
				Charges:   result.Charges,
				LineItems: darf.LineItems(result.Charges, orderID),
				Barcode:   result.Barcode,
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}

	root.Flags().Float64Var(&gapThreshold, "gap-threshold", 0, "vertical gap that starts a new line (0 = default)")
	root.Flags().BoolVar(&decodeBarcode, "barcode", false, "decode the ITF payment barcode")
	root.Flags().BoolVar(&debug, "debug", false, "dump the reconstructed text")
	root.Flags().StringVar(&orderID, "order-id", "", "order to attach the line items to")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
