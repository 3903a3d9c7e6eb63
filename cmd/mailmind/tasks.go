package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/mailmind/plugin/ai"
	"github.com/hrygo/mailmind/plugin/ai/assistant"
)

// taskFlags are the request fields shared by the one-shot commands.
type taskFlags struct {
	file         string
	model        string
	tone         string
	context      string
	instructions string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", `Read the email from a file ("-" for stdin)`)
	cmd.Flags().StringVarP(&f.model, "model", "m", "auto", "Model id or auto")
}

// content returns the email from the argument, the file flag or stdin.
func (f *taskFlags) content(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	var r io.Reader
	switch f.file {
	case "":
		return "", nil
	case "-":
		r = cmd.InOrStdin()
	default:
		file, err := os.Open(f.file)
		if err != nil {
			return "", errors.Wrap(err, "failed to open email file")
		}
		defer file.Close()
		r = file
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "failed to read email")
	}
	return string(b), nil
}

// stack builds the assistant without Prometheus; one-shot runs only log.
func (c *cli) stack(ctx context.Context) (*assistant.Stack, error) {
	p, err := c.profile()
	if err != nil {
		return nil, err
	}
	return assistant.NewStack(ctx, ai.NewConfigFromProfile(p), nil)
}

func logAvailability(stack *assistant.Stack) {
	available := stack.Registry.ListAvailable()
	if len(available) == 0 {
		slog.Warn("no provider configured, every task uses the rule-based fallback")
		return
	}
	ids := make([]string, len(available))
	for i, m := range available {
		ids[i] = m.ID
	}
	slog.Info("models available", "models", ids)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// runTask is the shared body of the one-shot commands.
func runTask[T any](c *cli, f *taskFlags, run func(*assistant.Service, context.Context, *ai.TaskRequest) (*T, error),
	build func(content string) *ai.TaskRequest) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		content, err := f.content(cmd, args)
		if err != nil {
			return err
		}
		stack, err := c.stack(cmd.Context())
		if err != nil {
			return err
		}

		req := build(content)
		req.ModelPreference = f.model
		res, err := run(stack.Service, cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	}
}

func contentRequest(content string) *ai.TaskRequest {
	return &ai.TaskRequest{Content: content}
}

func analyzeCmd(c *cli) *cobra.Command {
	f := &taskFlags{}
	cmd := &cobra.Command{
		Use:   "analyze [email]",
		Short: "Analyze sentiment, urgency and tone of an email",
		Args:  cobra.MaximumNArgs(1),
	}
	cmd.RunE = runTask(c, f, (*assistant.Service).Analyze, contentRequest)
	f.register(cmd)
	return cmd
}

func summarizeCmd(c *cli) *cobra.Command {
	f := &taskFlags{}
	cmd := &cobra.Command{
		Use:   "summarize [email]",
		Short: "Summarize an email",
		Args:  cobra.MaximumNArgs(1),
	}
	cmd.RunE = runTask(c, f, (*assistant.Service).Summarize, contentRequest)
	f.register(cmd)
	return cmd
}

func suggestCmd(c *cli) *cobra.Command {
	f := &taskFlags{}
	cmd := &cobra.Command{
		Use:   "suggest [draft]",
		Short: "Suggest improvements to a draft",
		Args:  cobra.MaximumNArgs(1),
	}
	cmd.RunE = runTask(c, f, (*assistant.Service).SuggestImprovements, contentRequest)
	f.register(cmd)
	return cmd
}

func replyCmd(c *cli) *cobra.Command {
	f := &taskFlags{}
	cmd := &cobra.Command{
		Use:   "reply [original-email]",
		Short: "Draft a reply to an email",
		Args:  cobra.MaximumNArgs(1),
	}
	cmd.RunE = runTask(c, f, (*assistant.Service).GenerateReply, func(content string) *ai.TaskRequest {
		return &ai.TaskRequest{
			Content:            content,
			Tone:               f.tone,
			Context:            f.context,
			CustomInstructions: f.instructions,
		}
	})
	f.register(cmd)
	cmd.Flags().StringVar(&f.tone, "tone", "professional", "Reply tone (professional, formal, friendly, casual, urgent)")
	cmd.Flags().StringVar(&f.context, "context", "", "Extra context for the reply")
	cmd.Flags().StringVar(&f.instructions, "instructions", "", "Custom instructions")
	return cmd
}

func templateCmd(c *cli) *cobra.Command {
	f := &taskFlags{}
	var templateType, industry string
	cmd := &cobra.Command{
		Use:   "template <purpose>",
		Short: "Generate a reusable email template",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = runTask(c, f, (*assistant.Service).GenerateTemplate, func(purpose string) *ai.TaskRequest {
		return &ai.TaskRequest{
			Purpose:            purpose,
			TemplateType:       templateType,
			Industry:           industry,
			Tone:               f.tone,
			CustomInstructions: f.instructions,
		}
	})
	cmd.Flags().StringVarP(&f.model, "model", "m", "auto", "Model id or auto")
	cmd.Flags().StringVar(&templateType, "type", "business", "Template style (business, creative, technical, formal)")
	cmd.Flags().StringVar(&industry, "industry", "", "Industry context")
	cmd.Flags().StringVar(&f.tone, "tone", "professional", "Template tone")
	cmd.Flags().StringVar(&f.instructions, "instructions", "", "Custom instructions")
	return cmd
}

func modelsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the model catalog and which models are available",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stack, err := c.stack(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPROVIDER\tVENDOR MODEL\tAVAILABLE\tCAPABILITIES")
			for _, m := range stack.Registry.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%v\n", m.ID, m.Provider, m.ModelID, m.Available, m.Capabilities)
			}
			return w.Flush()
		},
	}
}
