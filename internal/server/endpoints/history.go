package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/presence/internal/api"
	"github.com/jackzampolin/presence/internal/history"
)

// HistoryResponse lists history items, newest first.
type HistoryResponse struct {
	Items []history.Item `json:"items"`
	Total int            `json:"total"`
	Cap   int            `json:"cap"`
}

// ImportResponse reports how many items an import kept.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// TagsResponse lists tags.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// SetTagsRequest replaces an item's tags.
type SetTagsRequest struct {
	Tags []string `json:"tags"`
}

// ListHistoryEndpoint handles GET /api/sessions/{id}/history.
type ListHistoryEndpoint struct{}

func (e *ListHistoryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/history", e.handler
}

func (e *ListHistoryEndpoint) RequiresInit() bool { return true }
func (e *ListHistoryEndpoint) Group() string      { return "history" }

// handler godoc
//
//	@Summary		List history
//	@Description	Items newest first. kind and tag may repeat; an item matches when it carries any listed tag.
//	@Tags			history
//	@Produce		json
//	@Param			id		path		string		true	"Session ID"
//	@Param			kind	query		[]string	false	"Allowed kinds"
//	@Param			tag		query		[]string	false	"Tags (any match)"
//	@Param			q		query		string		false	"Case-insensitive search"
//	@Param			limit	query		int			false	"Max results"
//	@Success		200		{object}	HistoryResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/history [get]
func (e *ListHistoryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	query := history.Query{
		Tags:   q["tag"],
		Search: q.Get("q"),
	}
	for _, k := range q["kind"] {
		query.Kinds = append(query.Kinds, history.ParseKind(k))
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit: %q must be a non-negative integer", v))
			return
		}
		query.Limit = limit
	}

	items := st.History.Filter(query)
	writeJSON(w, http.StatusOK, HistoryResponse{
		Items: items,
		Total: len(items),
		Cap:   st.History.Cap(),
	})
}

func (e *ListHistoryEndpoint) Command(getServerURL func() string) *cobra.Command {
	var kinds, tags []string
	var search string
	var limit int

	cmd := &cobra.Command{
		Use:   "list <session-id>",
		Short: "List a session's history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())

			params := url.Values{}
			for _, k := range kinds {
				params.Add("kind", k)
			}
			for _, t := range tags {
				params.Add("tag", t)
			}
			if search != "" {
				params.Set("q", search)
			}
			if limit > 0 {
				params.Set("limit", strconv.Itoa(limit))
			}

			path := sessionPath(args[0], "history")
			if len(params) > 0 {
				path += "?" + params.Encode()
			}

			var resp HistoryResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "Filter by kind (repeatable)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Filter by tag, any match (repeatable)")
	cmd.Flags().StringVarP(&search, "search", "q", "", "Search payload and output")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	return cmd
}

// ClearHistoryEndpoint handles DELETE /api/sessions/{id}/history.
type ClearHistoryEndpoint struct{}

func (e *ClearHistoryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/sessions/{id}/history", e.handler
}

func (e *ClearHistoryEndpoint) RequiresInit() bool { return true }
func (e *ClearHistoryEndpoint) Group() string      { return "history" }

// handler godoc
//
//	@Summary		Clear history
//	@Tags			history
//	@Param			id	path	string	true	"Session ID"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/sessions/{id}/history [delete]
func (e *ClearHistoryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	st.History.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (e *ClearHistoryEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <session-id>",
		Short: "Remove every history item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), sessionPath(args[0], "history")); err != nil {
				return err
			}
			fmt.Println("History cleared")
			return nil
		},
	}
}

// ExportHistoryEndpoint handles GET /api/sessions/{id}/history/export.
type ExportHistoryEndpoint struct {
	// Now defaults to time.Now; it names the download.
	Now func() time.Time
}

func (e *ExportHistoryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/history/export", e.handler
}

func (e *ExportHistoryEndpoint) RequiresInit() bool { return true }
func (e *ExportHistoryEndpoint) Group() string      { return "history" }

// handler godoc
//
//	@Summary		Export history
//	@Description	Downloads the history as a JSON array (keys ts, kind, payload, output, tags)
//	@Tags			history
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{array}		history.Item
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/sessions/{id}/history/export [get]
func (e *ExportHistoryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	data, err := st.History.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", history.ExportFilename(now())))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (e *ExportHistoryEndpoint) Command(getServerURL func() string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export history as JSON",
		Long:  "Export history as JSON. Writes to stdout unless --file is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			data, err := client.GetRaw(cmd.Context(), sessionPath(args[0], "history", "export"))
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
	cmd.Flags().StringVarP(&out, "file", "f", "", "Output file (e.g. "+history.ExportFilename(time.Now())+")")
	return cmd
}

// ImportHistoryEndpoint handles POST /api/sessions/{id}/history/import.
type ImportHistoryEndpoint struct{}

func (e *ImportHistoryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/history/import", e.handler
}

func (e *ImportHistoryEndpoint) RequiresInit() bool { return true }
func (e *ImportHistoryEndpoint) Group() string      { return "history" }

// handler godoc
//
//	@Summary		Import history
//	@Description	Replaces the history with a JSON array. Legacy item shapes are normalized.
//	@Description	Malformed JSON leaves the history unchanged.
//	@Tags			history
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Session ID"
//	@Param			items	body		[]history.Item	true	"Items, newest first"
//	@Success		200		{object}	ImportResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/history/import [post]
func (e *ImportHistoryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := st.History.Import(data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Imported: n})
}

func (e *ImportHistoryEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <session-id> <file>",
		Short: "Replace history from an exported JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[1], err)
			}
			client := api.NewClient(getServerURL())
			var resp ImportResponse
			if err := client.PostRaw(cmd.Context(), sessionPath(args[0], "history", "import"), "application/json", data, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// HistoryTagsEndpoint handles GET /api/sessions/{id}/history/tags.
type HistoryTagsEndpoint struct{}

func (e *HistoryTagsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/history/tags", e.handler
}

func (e *HistoryTagsEndpoint) RequiresInit() bool { return true }
func (e *HistoryTagsEndpoint) Group() string      { return "history" }

// handler godoc
//
//	@Summary		Known tags
//	@Description	Every tag used in the session's history, sorted
//	@Tags			history
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	TagsResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/sessions/{id}/history/tags [get]
func (e *HistoryTagsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: st.History.KnownTags()})
}

func (e *HistoryTagsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "tags <session-id>",
		Short: "List tags in use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp TagsResponse
			if err := client.Get(cmd.Context(), sessionPath(args[0], "history", "tags"), &resp); err != nil {
				return err
			}
			return api.Output(resp.Tags)
		},
	}
}

// SetHistoryTagsEndpoint handles PUT /api/sessions/{id}/history/{index}/tags.
type SetHistoryTagsEndpoint struct{}

func (e *SetHistoryTagsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/sessions/{id}/history/{index}/tags", e.handler
}

func (e *SetHistoryTagsEndpoint) RequiresInit() bool { return true }
func (e *SetHistoryTagsEndpoint) Group() string      { return "history" }

// handler godoc
//
//	@Summary		Replace an item's tags
//	@Tags			history
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Session ID"
//	@Param			index	path		int				true	"Item index, 0 is newest"
//	@Param			request	body		SetTagsRequest	true	"Tags"
//	@Success		200		{object}	history.Item
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/history/{index}/tags [put]
func (e *SetHistoryTagsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid index: %q must be an integer", raw))
		return
	}
	var req SetTagsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := st.History.SetTags(index, req.Tags)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (e *SetHistoryTagsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <session-id> <index> [tag...]",
		Short: "Replace the tags of one history item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("index must be an integer: %q", args[1])
			}
			client := api.NewClient(getServerURL())
			var resp history.Item
			req := SetTagsRequest{Tags: args[2:]}
			if err := client.Put(cmd.Context(), sessionPath(args[0], "history", args[1], "tags"), req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
