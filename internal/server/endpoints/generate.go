package endpoints

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/presence/internal/api"
	"github.com/jackzampolin/presence/internal/brief"
	"github.com/jackzampolin/presence/internal/generation"
	"github.com/jackzampolin/presence/internal/prompts/optimizer"
	"github.com/jackzampolin/presence/internal/scoring"
	"github.com/jackzampolin/presence/internal/studio"
)

// BindBriefFlags registers the brief fields on cmd.
func BindBriefFlags(cmd *cobra.Command, in *brief.Input) {
	cmd.Flags().StringVar(&in.ContentType, "type", brief.PressRelease, "Content type ("+strings.Join(brief.ContentTypes, ", ")+")")
	cmd.Flags().StringVar(&in.Topic, "topic", "", "Topic, product or offer")
	cmd.Flags().StringVar(&in.Bullets, "bullets", "", "Key points, one per line")
	cmd.Flags().StringVar(&in.Tone, "tone", "", "Tone (default "+brief.DefaultTone+")")
	cmd.Flags().StringVar(&in.Length, "length", "", "Length (default "+brief.DefaultLength+")")
	cmd.Flags().StringVar(&in.Platform, "platform", "", "Platform (default "+brief.DefaultPlatform+")")
	cmd.Flags().StringVar(&in.Audience, "audience", "", "Audience (default "+brief.DefaultAudience+")")
	cmd.Flags().StringVar(&in.CTA, "cta", "", "Call to action")
	cmd.Flags().StringVar(&in.Language, "language", "", "Language (default "+brief.DefaultLanguage+")")
	cmd.Flags().StringVar(&in.BrandRules, "brand-rules", "", "Brand rules, overriding the profile")
}

// warnDegraded tells a CLI user the output came from offline templates.
func warnDegraded(d *generation.Diagnostic) {
	if d != nil {
		fmt.Fprintf(os.Stderr, "offline output (%s)\n", d)
	}
}

// GenerateEndpoint handles POST /api/sessions/{id}/generate.
type GenerateEndpoint struct{}

func (e *GenerateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/generate", e.handler
}

func (e *GenerateEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Generate content variants
//	@Description	Validates the brief, applies the session cooldown, generates 1-3 variants and records them in history.
//	@Description	Output is always populated; a diagnostic explains offline output.
//	@Tags			generate
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Session ID"
//	@Param			brief	body		brief.Input	true	"Content brief"
//	@Success		200		{object}	studio.GenerateResult
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		429		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/generate [post]
func (e *GenerateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	s, ok := studioFrom(w, r)
	if !ok {
		return
	}
	var in brief.Input
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.Generate(r.Context(), st, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (e *GenerateEndpoint) Command(getServerURL func() string) *cobra.Command {
	var in brief.Input

	cmd := &cobra.Command{
		Use:   "generate <session-id>",
		Short: "Generate content variants for a brief",
		Example: `  presence api generate $SID --topic "Launch X" --bullets $'fast\nsecure' --variants 2
  presence -o text api generate $SID --type "Social Post" --topic "Spring sale"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp studio.GenerateResult
			if err := client.Post(cmd.Context(), sessionPath(args[0], "generate"), in, &resp); err != nil {
				return err
			}
			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			warnDegraded(resp.Diagnostic)
			return api.Output(resp.Variants)
		},
	}
	BindBriefFlags(cmd, &in)
	cmd.Flags().IntVar(&in.VariantCount, "variants", 1, "Number of variants (1-3)")
	return cmd
}

// StrategyEndpoint handles POST /api/sessions/{id}/strategy.
type StrategyEndpoint struct{}

func (e *StrategyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/strategy", e.handler
}

func (e *StrategyEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Draft a strategy idea
//	@Description	One PR or marketing initiative for the session's company
//	@Tags			generate
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Session ID"
//	@Param			request	body		studio.StrategyInput	false	"Goals, tone and length"
//	@Success		200		{object}	studio.StrategyResult
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/strategy [post]
func (e *StrategyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	s, ok := studioFrom(w, r)
	if !ok {
		return
	}
	var in studio.StrategyInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.Strategy(r.Context(), st, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (e *StrategyEndpoint) Command(getServerURL func() string) *cobra.Command {
	var in studio.StrategyInput

	cmd := &cobra.Command{
		Use:   "strategy <session-id>",
		Short: "Draft a strategy idea for the session's company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp studio.StrategyResult
			if err := client.Post(cmd.Context(), sessionPath(args[0], "strategy"), in, &resp); err != nil {
				return err
			}
			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			warnDegraded(resp.Diagnostic)
			return api.Output(resp.Idea)
		},
	}
	cmd.Flags().StringVar(&in.Goals, "goals", "", "Goals, overriding the profile")
	cmd.Flags().StringVar(&in.Tone, "tone", "", "Tone")
	cmd.Flags().StringVar(&in.Length, "length", "", "Length")
	return cmd
}

// OptimizeEndpoint handles POST /api/sessions/{id}/optimize.
type OptimizeEndpoint struct{}

func (e *OptimizeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/optimize", e.handler
}

func (e *OptimizeEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Run an A/B/C test
//	@Description	Generates competing variants, scores each against the criteria and picks a winner
//	@Tags			generate
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Session ID"
//	@Param			request	body		studio.OptimizeInput	true	"Brief and criteria"
//	@Success		200		{object}	studio.OptimizeResult
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		429		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/optimize [post]
func (e *OptimizeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	s, ok := studioFrom(w, r)
	if !ok {
		return
	}
	var in studio.OptimizeInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.Optimize(r.Context(), st, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (e *OptimizeEndpoint) Command(getServerURL func() string) *cobra.Command {
	var in studio.OptimizeInput

	cmd := &cobra.Command{
		Use:   "optimize <session-id>",
		Short: "Generate and score competing variants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp studio.OptimizeResult
			if err := client.Post(cmd.Context(), sessionPath(args[0], "optimize"), in, &resp); err != nil {
				return err
			}
			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			warnDegraded(resp.Diagnostic)
			for i, v := range resp.Variants {
				fmt.Printf("Variant %s  total %d (%s)\n%s\n\n", studio.VariantLabel(i), v.Total, v.Source, v.Text)
			}
			fmt.Printf("Winner: %s\n", resp.WinnerLabel())
			return nil
		},
	}
	BindBriefFlags(cmd, &in.Input)
	cmd.Flags().IntVar(&in.VariantCount, "variants", studio.DefaultTestVariants, "Number of variants (1-3)")
	cmd.Flags().StringSliceVar(&in.Criteria, "criteria", scoring.DefaultCriteria, "Scoring criteria")
	return cmd
}

// WordEndpoint handles POST /api/sessions/{id}/optimizer/{action}.
type WordEndpoint struct{}

func (e *WordEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/optimizer/{action}", e.handler
}

func (e *WordEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Suggest or rewrite wording
//	@Description	action is suggest or rewrite. Rewrite modes: Clarity, Conversion, SEO, Formal, Friendly.
//	@Tags			generate
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Session ID"
//	@Param			action	path		string				true	"suggest or rewrite"
//	@Param			request	body		studio.WordInput	true	"Text and options"
//	@Success		200		{object}	studio.WordResult
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/optimizer/{action} [post]
func (e *WordEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	s, ok := studioFrom(w, r)
	if !ok {
		return
	}
	var in studio.WordInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.Word(r.Context(), st, chi.URLParam(r, "action"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (e *WordEndpoint) Command(getServerURL func() string) *cobra.Command {
	var in studio.WordInput

	cmd := &cobra.Command{
		Use:       "words <session-id> <suggest|rewrite>",
		Short:     "Improve wording of a text",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{studio.ActionSuggest, studio.ActionRewrite},
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp studio.WordResult
			if err := client.Post(cmd.Context(), sessionPath(args[0], "optimizer", args[1]), in, &resp); err != nil {
				return err
			}
			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			warnDegraded(resp.Diagnostic)
			return api.Output(resp.Text)
		},
	}
	cmd.Flags().StringVar(&in.Text, "text", "", "Text to improve")
	cmd.Flags().StringVar(&in.Mode, "mode", "", "Rewrite mode ("+strings.Join(optimizer.Modes, ", ")+")")
	cmd.Flags().StringVar(&in.Audience, "audience", "", "Audience")
	cmd.Flags().StringVar(&in.Tone, "tone", "", "Tone")
	cmd.Flags().StringVar(&in.Language, "language", "", "Language")
	cmd.Flags().StringVar(&in.BrandRules, "brand-rules", "", "Brand rules, overriding the profile")
	return cmd
}
