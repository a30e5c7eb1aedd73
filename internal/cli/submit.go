package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdemo/pkg/model"
	"github.com/goliatone/go-formdemo/pkg/nav"
	"github.com/goliatone/go-formdemo/pkg/openapi"
	"github.com/goliatone/go-formdemo/pkg/render"
	"github.com/goliatone/go-formdemo/pkg/renderers/tui"
)

const (
	defaultServer    = "http://localhost:8383"
	defaultMaxRounds = 3
	formRoute        = "/api/forms/{form}"
)

// ErrRejected is returned when the server still rejects the form after the
// last round of prompts.
var ErrRejected = errors.New("cli: submission rejected")

// Submitter fills in a form through a prompt driver and posts it to the
// server, re-prompting with the server's state while validation fails.
type Submitter struct {
	Server    string
	Client    *http.Client
	Driver    tui.PromptDriver
	MaxRounds int
}

// Run prompts for form and submits it. It returns the server's success
// message.
func (s Submitter) Run(ctx context.Context, form model.FormModel) (string, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{
			Timeout: time.Minute,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	rounds := s.MaxRounds
	if rounds <= 0 {
		rounds = defaultMaxRounds
	}
	renderer := tui.New(
		tui.WithPromptDriver(s.Driver),
		tui.WithOutputFormat(tui.OutputFormatFormURLEncoded),
	)
	endpoint := strings.TrimRight(s.Server, "/") + form.Endpoint

	var state model.FormState
	for round := 0; round < rounds; round++ {
		payload, err := renderer.Render(ctx, form, render.RenderOptions{State: state})
		if err != nil {
			return "", err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payload)))
		if err != nil {
			return "", fmt.Errorf("cli: build request: %w", err)
		}
		req.Header.Set("Content-Type", renderer.ContentType())

		message, next, err := send(client, req)
		if err != nil {
			return "", err
		}
		if next == nil {
			return message, nil
		}
		state = *next
	}
	return "", fmt.Errorf("%w: %s", ErrRejected, strings.Join(state.Errors, "; "))
}

// send posts req and returns either the success text or the rejected state.
func send(client *http.Client, req *http.Request) (string, *model.FormState, error) {
	resp, err := client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("cli: submit: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", nil, fmt.Errorf("cli: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("cli: server returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return strings.TrimSpace(string(body)), nil, nil
	}
	var state model.FormState
	if err := json.Unmarshal(body, &state); err != nil {
		return "", nil, fmt.Errorf("cli: decode state: %w", err)
	}
	return "", &state, nil
}

// formFor builds the form posted to /api/forms/<id> from doc.
func formFor(doc *openapi.Document, id string, fields []string) (model.FormModel, error) {
	builder := model.NewBuilder(nil)
	for _, op := range doc.Operations() {
		params, ok := nav.Params(formRoute, op.Path)
		if !ok || params["form"] != id {
			continue
		}
		form, err := builder.Build(id, op)
		if err != nil {
			return model.FormModel{}, err
		}
		return form.Subset(fields...), nil
	}
	return model.FormModel{}, fmt.Errorf("cli: unknown form %q", id)
}

func loadDocument(ctx context.Context, file string) (*openapi.Document, error) {
	if strings.TrimSpace(file) == "" {
		return openapi.Default(ctx)
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return openapi.Load(ctx, raw)
}

func SubmitCmd() *cobra.Command {
	var (
		server   string
		formID   string
		fields   []string
		specFile string
		rounds   int
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Fill in a form in the terminal and submit it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			doc, err := loadDocument(ctx, specFile)
			if err != nil {
				return err
			}
			form, err := formFor(doc, formID, fields)
			if err != nil {
				return err
			}
			submitter := Submitter{
				Server:    server,
				Driver:    tui.NewSurveyDriver(),
				MaxRounds: rounds,
			}
			message, err := submitter.Run(ctx, form)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", defaultServer, "Base URL of the form demo server")
	cmd.Flags().StringVar(&formID, "form", "signup", "Form id to submit")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Only prompt for these fields")
	cmd.Flags().StringVar(&specFile, "spec", "", "OpenAPI document describing the forms (embedded document when empty)")
	cmd.Flags().IntVar(&rounds, "rounds", defaultMaxRounds, "Maximum submission attempts")
	return cmd
}
