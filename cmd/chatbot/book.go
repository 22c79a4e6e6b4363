package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adelvo/website/backend/internal/bootstrap"
	"github.com/adelvo/website/backend/internal/service/booking"
)

var errBookingRejected = errors.New("booking was not accepted")

var bookFields []string

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Submit the consultation booking form",
	Example: `  chatbot book --field name="Ada Lovelace" --field email=ada@example.com \
    --field message="Tuesday afternoon"`,
	RunE: runBook,
}

func init() {
	bookCmd.Flags().StringArrayVarP(&bookFields, "field", "f", nil, "form field as key=value (repeatable)")
	rootCmd.AddCommand(bookCmd)
}

func runBook(cmd *cobra.Command, args []string) error {
	fields, err := parseFields(bookFields)
	if err != nil {
		return err
	}

	form := booking.NewForm(bootstrap.NewBookingService(cfg))
	status := form.Submit(cmd.Context(), fields)

	view := newTerminalView(cmd.OutOrStdout(), false)
	view.BookingStatus(status)

	if !status.OK() {
		return errBookingRejected
	}
	return nil
}

func parseFields(pairs []string) (url.Values, error) {
	fields := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q: expected key=value", pair)
		}
		fields.Add(key, value)
	}
	return fields, nil
}
