package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/temirov/spooler/internal/attachments"
	"github.com/temirov/spooler/internal/model"
	"github.com/temirov/spooler/internal/seed"
)

const defaultOperationTimeout = 30 * time.Second

type Seeder interface {
	Seed(context.Context, seed.Plan) (seed.Summary, error)
}

type EmailStore interface {
	GetEmail(context.Context, uuid.UUID) (*model.Email, error)
	AddAttachments(context.Context, uuid.UUID, []model.EmailAttachment) error
}

type Dependencies struct {
	Seeder           Seeder
	Store            EmailStore
	ContentIDs       attachments.ContentIDGenerator
	Limits           attachments.Limits
	DefaultPlan      seed.Plan
	OperationTimeout time.Duration
	Output           io.Writer
}

func NewRootCommand(dependencies Dependencies) *cobra.Command {
	root := &cobra.Command{
		Use:           "spoolerfix",
		Short:         "Seed and inspect email spool databases",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(buildSeedCommand(dependencies))
	root.AddCommand(buildAttachCommand(dependencies))
	root.AddCommand(buildShowCommand(dependencies))
	return root
}

func buildSeedCommand(dependencies Dependencies) *cobra.Command {
	var (
		emailCount      int
		attachmentCount int
		recipientCount  int
		fileInputs      []string
		inline          bool
	)

	command := &cobra.Command{
		Use:   "seed",
		Short: "Store randomly generated emails with attachments",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dependencies.Seeder == nil {
				return errors.New("seeder is not configured")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), operationTimeout(dependencies))
			defer cancel()

			extraAttachments, err := loadAttachments(ctx, dependencies, fileInputs, inline)
			if err != nil {
				return err
			}

			summary, err := dependencies.Seeder.Seed(ctx, seed.Plan{
				Emails:              emailCount,
				AttachmentsPerEmail: attachmentCount,
				RecipientsPerEmail:  recipientCount,
				ExtraAttachments:    extraAttachments,
			})
			if err != nil {
				return err
			}

			output := outputWriter(dependencies)
			if _, err := fmt.Fprintf(output, "Seeded %d emails with %d attachments (%d bytes)\n",
				len(summary.EmailIDs), summary.Attachments, summary.PayloadBytes); err != nil {
				return err
			}
			for _, emailID := range summary.EmailIDs {
				if _, err := fmt.Fprintln(output, emailID.String()); err != nil {
					return err
				}
			}
			return nil
		},
	}

	command.Flags().IntVar(&emailCount, "emails", dependencies.DefaultPlan.Emails, "Number of emails to generate")
	command.Flags().IntVar(&attachmentCount, "attachments", dependencies.DefaultPlan.AttachmentsPerEmail, "Random attachments per email")
	command.Flags().IntVar(&recipientCount, "recipients", dependencies.DefaultPlan.RecipientsPerEmail, "Recipients per email (at least one primary recipient is always added)")
	command.Flags().StringArrayVar(&fileInputs, "attach", nil, "File to add to every email, as path or path::mime/type (repeatable)")
	command.Flags().BoolVar(&inline, "inline", false, "Mark files given with --attach as inline")

	return command
}

func buildAttachCommand(dependencies Dependencies) *cobra.Command {
	var (
		fileInputs []string
		inline     bool
	)

	command := &cobra.Command{
		Use:   "attach <email-id>",
		Short: "Add files to a stored email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dependencies.Store == nil {
				return errors.New("email store is not configured")
			}
			emailID, err := parseEmailID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), operationTimeout(dependencies))
			defer cancel()

			loaded, err := loadAttachments(ctx, dependencies, fileInputs, inline)
			if err != nil {
				return err
			}
			if err := dependencies.Store.AddAttachments(ctx, emailID, loaded); err != nil {
				return err
			}

			_, writeErr := fmt.Fprintf(outputWriter(dependencies), "Attached %d files to %s\n", len(loaded), emailID)
			return writeErr
		},
	}

	command.Flags().StringArrayVar(&fileInputs, "file", nil, "File to attach, as path or path::mime/type (repeatable)")
	command.Flags().BoolVar(&inline, "inline", false, "Mark the files as inline")
	markRequired(command, "file")

	return command
}

func buildShowCommand(dependencies Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "show <email-id>",
		Short: "Print a stored email with its recipients and attachments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dependencies.Store == nil {
				return errors.New("email store is not configured")
			}
			emailID, err := parseEmailID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), operationTimeout(dependencies))
			defer cancel()

			email, err := dependencies.Store.GetEmail(ctx, emailID)
			if err != nil {
				return err
			}
			return writeEmail(outputWriter(dependencies), email)
		},
	}
}

func loadAttachments(ctx context.Context, dependencies Dependencies, fileInputs []string, inline bool) ([]model.EmailAttachment, error) {
	if len(fileInputs) == 0 {
		return nil, nil
	}
	loaded, err := attachments.Load(fileInputs)
	if err != nil {
		return nil, err
	}
	for index := range loaded {
		loaded[index].Inline = inline
	}
	return attachments.Normalize(ctx, loaded, dependencies.Limits, dependencies.ContentIDs)
}

func writeEmail(output io.Writer, email *model.Email) error {
	writer := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Email\t%s\n", email.EmailID)
	fmt.Fprintf(writer, "From\t%s\n", email.Sender)
	fmt.Fprintf(writer, "Subject\t%s\n", email.Subject)
	fmt.Fprintf(writer, "Send at\t%s\n", email.SendAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(writer, "Sent\t%t (%d attempts)\n", email.Sent, email.SendAttempts)
	for _, recipient := range email.Recipients {
		fmt.Fprintf(writer, "%s\t%s\n", recipientKind(recipient), recipient.Recipient)
	}
	if len(email.Attachments) > 0 {
		fmt.Fprintln(writer, "\nName\tType\tBytes\tContent-ID")
		for _, attachment := range email.Attachments {
			fmt.Fprintf(writer, "%s\t%s\t%d\t%s\n", attachment.Name, attachment.MIMEType, attachment.Size(), attachment.ContentID)
		}
	}
	return writer.Flush()
}

func recipientKind(recipient model.EmailRecipient) string {
	switch {
	case recipient.IsCC:
		return "Cc"
	case recipient.IsBCC:
		return "Bcc"
	default:
		return "To"
	}
}

func parseEmailID(input string) (uuid.UUID, error) {
	emailID, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid email id %q: %w", input, err)
	}
	return emailID, nil
}

func operationTimeout(dependencies Dependencies) time.Duration {
	if dependencies.OperationTimeout <= 0 {
		return defaultOperationTimeout
	}
	return dependencies.OperationTimeout
}

func outputWriter(dependencies Dependencies) io.Writer {
	if dependencies.Output == nil {
		return io.Discard
	}
	return dependencies.Output
}

func markRequired(cmd *cobra.Command, name string) {
	_ = cmd.MarkFlagRequired(name)
}
