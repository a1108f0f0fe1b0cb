package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/roboclub/clubcms"
	"github.com/roboclub/clubcms/lexical"
)

// readDocument reads an editor document from fpath ("-" is stdin). With a
// field name, the document is taken from that field of a record.
func readDocument(in io.Reader, fpath, field string) (*lexical.Document, error) {
	if fpath != "-" {
		f, err := os.Open(fpath)
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot open file: %q", fpath)
		}
		defer f.Close()
		in = f
	}
	var v interface{}
	if err := json.NewDecoder(in).Decode(&v); err != nil {
		return nil, errors.Wrapf(err, "Parsing json in %q", fpath)
	}
	if field != "" {
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("%q is not a record", fpath)
		}
		if v, ok = m[field]; !ok {
			return nil, errors.Errorf("%q has no field %q", fpath, field)
		}
	}
	return lexical.FromValue(v), nil
}

func newRenderCmd() *cobra.Command {
	var (
		field  string
		text   bool
		unsafe bool
	)
	cmd := &cobra.Command{
		Use:   "render <file|->",
		Short: "Render a rich-text document to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd.InOrStdin(), args[0], field)
			if err != nil {
				return err
			}
			if text {
				fmt.Fprintln(cmd.OutOrStdout(), lexical.PlainText(doc))
				return nil
			}
			html, err := clubcms.RichText(doc, unsafe).Render()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(html))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&field, "field", "f", "", "take the document from this field of a record")
	f.BoolVar(&text, "text", false, "print plain text instead of HTML")
	f.BoolVar(&unsafe, "unsafe", false, "do not sanitize the output")
	return cmd
}
