package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"studio-inquiry-backend/internal/contactclient"
	"studio-inquiry-backend/internal/domain"

	"github.com/spf13/cobra"
)

var version = "dev"

// errReported marks failures already printed to the user
var errReported = errors.New("inquiry not sent")

type inquiryFlags struct {
	name    string
	email   string
	details string
}

func (f *inquiryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "your name")
	cmd.Flags().StringVar(&f.email, "email", "", "email address the studio should reply to")
	cmd.Flags().StringVar(&f.details, "details", "", "project description, or - to read it from stdin")
}

// input resolves the flags into form values, reading stdin for "-"
func (f *inquiryFlags) input(in io.Reader) (domain.InquiryInput, error) {
	details := f.details
	if details == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return domain.InquiryInput{}, fmt.Errorf("reading details from stdin: %w", err)
		}
		details = strings.TrimRight(string(data), "\r\n")
	}
	return domain.InquiryInput{Name: f.name, Email: f.email, ProjectDetails: details}, nil
}

func defaultAPI() string {
	if v := os.Getenv("INQUIRY_API_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "inquire",
		Short:         "Send project inquiries to the studio",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)

	root.AddCommand(newSubmitCmd(), newValidateCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	var f inquiryFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check an inquiry against the form rules without sending it",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := f.input(cmd.InOrStdin())
			if err != nil {
				return err
			}

			c := contactclient.New(defaultAPI())
			c.SetFields(input)
			if fields := c.Validate(); fields != nil {
				fmt.Fprint(cmd.OutOrStdout(), renderFieldErrors(fields))
				return errReported
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ inquiry is valid"))
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newSubmitCmd() *cobra.Command {
	var (
		f       inquiryFlags
		api     string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Send an inquiry to the studio",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			input, err := f.input(cmd.InOrStdin())
			if err != nil {
				return err
			}

			c := contactclient.New(api, contactclient.OnChange(func(s contactclient.State) {
				if s.Status == contactclient.StatusPending {
					fmt.Fprintln(out, pendingStyle.Render("… sending"))
				}
			}))
			c.SetFields(input)

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			inquiry, err := c.Submit(ctx)
			if err != nil {
				var subErr *contactclient.SubmissionError
				if !errors.As(err, &subErr) {
					return err
				}
				fmt.Fprintln(out, errorStyle.Render("✗ "+subErr.Message))
				if len(subErr.Fields) > 0 {
					fmt.Fprint(out, renderFieldErrors(subErr.Fields))
				}
				return errReported
			}

			fmt.Fprintln(out, successStyle.Render("✓ Thank you! The studio will be in touch."))
			fmt.Fprintln(out, headerStyle.Render("Inquiry "+inquiry.ID.String()))
			fmt.Fprintln(out, "  "+renderField("Name", inquiry.Name))
			fmt.Fprintln(out, "  "+renderField("Email", inquiry.Email))
			fmt.Fprintln(out, "  "+renderField("Received", inquiry.CreatedAt.Format(time.RFC3339)))
			return nil
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&api, "api", defaultAPI(), "base URL of the studio API")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "give up waiting for the studio after this long")
	return cmd
}
