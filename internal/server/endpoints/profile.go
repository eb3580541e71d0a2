package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/presence/internal/api"
	"github.com/jackzampolin/presence/internal/profile"
)

// GetProfileEndpoint handles GET /api/sessions/{id}/profile.
type GetProfileEndpoint struct{}

func (e *GetProfileEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/profile", e.handler
}

func (e *GetProfileEndpoint) RequiresInit() bool { return true }
func (e *GetProfileEndpoint) Group() string      { return "profile" }

// handler godoc
//
//	@Summary		Get the company profile
//	@Tags			profile
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	profile.Profile
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/sessions/{id}/profile [get]
func (e *GetProfileEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st.Profile.Get())
}

func (e *GetProfileEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <session-id>",
		Short: "Show the session's company profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp profile.Profile
			if err := client.Get(cmd.Context(), sessionPath(args[0], "profile"), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// UpdateProfileEndpoint handles PUT /api/sessions/{id}/profile.
type UpdateProfileEndpoint struct{}

func (e *UpdateProfileEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/sessions/{id}/profile", e.handler
}

func (e *UpdateProfileEndpoint) RequiresInit() bool { return true }
func (e *UpdateProfileEndpoint) Group() string      { return "profile" }

// handler godoc
//
//	@Summary		Replace the company profile
//	@Description	Overwrites every field; omitted fields become empty
//	@Tags			profile
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Session ID"
//	@Param			profile	body		profile.Profile	true	"Company profile"
//	@Success		200		{object}	profile.Profile
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/profile [put]
func (e *UpdateProfileEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	var p profile.Profile
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st.Profile.Set(p)
	writeJSON(w, http.StatusOK, st.Profile.Get())
}

func (e *UpdateProfileEndpoint) Command(getServerURL func() string) *cobra.Command {
	var p profile.Profile
	var reset bool

	cmd := &cobra.Command{
		Use:   "set <session-id>",
		Short: "Replace the session's company profile",
		Long: `Replace the company profile. Every field is overwritten, so unset
flags clear the corresponding field. Use --reset to restore the defaults.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := p
			if reset {
				body = profile.Default()
			}
			client := api.NewClient(getServerURL())
			var resp profile.Profile
			if err := client.Put(cmd.Context(), sessionPath(args[0], "profile"), body, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&p.Name, "name", "", "Company name")
	cmd.Flags().StringVar(&p.Industry, "industry", "", "Industry")
	cmd.Flags().StringVar(&p.Size, "size", "", "Company size")
	cmd.Flags().StringVar(&p.Goals, "goals", "", "Marketing goals")
	cmd.Flags().StringVar(&p.Audience, "audience", "", "Target audience")
	cmd.Flags().StringVar(&p.BrandVoice, "brand-voice", "", "Brand voice")
	cmd.Flags().StringVar(&p.BrandRules, "brand-rules", "", "Brand rules applied to every prompt")
	cmd.Flags().StringVar(&p.Website, "website", "", "Company website")
	cmd.Flags().BoolVar(&reset, "reset", false, "Restore the default profile")
	return cmd
}
