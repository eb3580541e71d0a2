package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/presence/internal/api"
	"github.com/jackzampolin/presence/internal/campaign"
	"github.com/jackzampolin/presence/internal/studio"
)

// SaveCampaignRequest is the body of POST /api/sessions/{id}/campaign-brief.
type SaveCampaignRequest struct {
	Format string `json:"format"`
}

// parseFormat accepts markdown (the default), md and html.
func parseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", studio.FormatMarkdown, "md":
		return studio.FormatMarkdown, nil
	case studio.FormatHTML:
		return studio.FormatHTML, nil
	}
	return "", fmt.Errorf("invalid format %q: use markdown or html", s)
}

// CampaignBriefEndpoint handles GET /api/sessions/{id}/campaign-brief.
type CampaignBriefEndpoint struct{}

func (e *CampaignBriefEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/campaign-brief", e.handler
}

func (e *CampaignBriefEndpoint) RequiresInit() bool { return true }
func (e *CampaignBriefEndpoint) Group() string      { return "campaign" }

// handler godoc
//
//	@Summary		Render the campaign brief
//	@Description	Company snapshot plus the latest strategy, variants and optimizer output.
//	@Description	Returns the document itself; nothing is recorded.
//	@Tags			campaign
//	@Produce		text/markdown
//	@Produce		text/html
//	@Param			id		path		string	true	"Session ID"
//	@Param			format	query		string	false	"markdown (default) or html"
//	@Success		200		{string}	string
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/campaign-brief [get]
func (e *CampaignBriefEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	s, ok := studioFrom(w, r)
	if !ok {
		return
	}
	format, err := parseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.CampaignBrief(st, format, false)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	contentType := "text/markdown; charset=utf-8"
	if res.Format == studio.FormatHTML {
		contentType = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", res.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(res.Body))
}

func (e *CampaignBriefEndpoint) Command(getServerURL func() string) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "brief <session-id>",
		Short: "Render the campaign brief",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := sessionPath(args[0], "campaign-brief")
			if format != "" {
				path += "?" + url.Values{"format": {format}}.Encode()
			}
			data, err := client.GetRaw(cmd.Context(), path)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", studio.FormatMarkdown, "markdown or html")
	cmd.Flags().StringVarP(&out, "file", "f", "", "Output file (e.g. "+campaign.Filename+")")
	return cmd
}

// SaveCampaignBriefEndpoint handles POST /api/sessions/{id}/campaign-brief.
type SaveCampaignBriefEndpoint struct{}

func (e *SaveCampaignBriefEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/campaign-brief", e.handler
}

func (e *SaveCampaignBriefEndpoint) RequiresInit() bool { return true }
func (e *SaveCampaignBriefEndpoint) Group() string      { return "campaign" }

// handler godoc
//
//	@Summary		Save the campaign brief
//	@Description	Renders the brief and records its markdown in history as campaign_brief
//	@Tags			campaign
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Session ID"
//	@Param			request	body		SaveCampaignRequest	false	"Response format"
//	@Success		201		{object}	studio.CampaignResult
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/campaign-brief [post]
func (e *SaveCampaignBriefEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	s, ok := studioFrom(w, r)
	if !ok {
		return
	}
	var req SaveCampaignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	format, err := parseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.CampaignBrief(st, format, true)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (e *SaveCampaignBriefEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "save <session-id>",
		Short: "Record the campaign brief in history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp studio.CampaignResult
			if err := client.Post(cmd.Context(), sessionPath(args[0], "campaign-brief"), SaveCampaignRequest{}, &resp); err != nil {
				return err
			}
			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			return api.Output(resp.Body)
		},
	}
}

// ShareCampaignBriefEndpoint handles POST /api/sessions/{id}/campaign-brief/share.
type ShareCampaignBriefEndpoint struct{}

func (e *ShareCampaignBriefEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/campaign-brief/share", e.handler
}

func (e *ShareCampaignBriefEndpoint) RequiresInit() bool { return true }
func (e *ShareCampaignBriefEndpoint) Group() string      { return "campaign" }

// handler godoc
//
//	@Summary		Share the campaign brief
//	@Description	Simulated delivery by email or slack; only a brief_share history item is produced
//	@Tags			campaign
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Session ID"
//	@Param			request	body		campaign.Share	true	"Channel, recipient and note"
//	@Success		200		{object}	studio.ShareResult
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/campaign-brief/share [post]
func (e *ShareCampaignBriefEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	s, ok := studioFrom(w, r)
	if !ok {
		return
	}
	var req campaign.Share
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.Share(st, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (e *ShareCampaignBriefEndpoint) Command(getServerURL func() string) *cobra.Command {
	var req campaign.Share

	cmd := &cobra.Command{
		Use:   "share <session-id>",
		Short: "Share the campaign brief (simulated)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp studio.ShareResult
			if err := client.Post(cmd.Context(), sessionPath(args[0], "campaign-brief", "share"), req, &resp); err != nil {
				return err
			}
			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			fmt.Println(resp.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Channel, "channel", campaign.ChannelEmail, "email or slack")
	cmd.Flags().StringVar(&req.To, "to", "", "Recipient")
	cmd.Flags().StringVar(&req.Note, "note", "", "Note to include")
	return cmd
}
