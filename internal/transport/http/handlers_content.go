package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bloomit/internal/catalog"
	"bloomit/internal/platform/metrics"
	id "bloomit/pkg/domain"
	dErrors "bloomit/pkg/domain-errors"
	audit "bloomit/pkg/platform/audit"
	"bloomit/pkg/platform/httputil"
	"bloomit/pkg/requestcontext"
)

// ContentService serves the static library and records volunteering sign-ups.
type ContentService interface {
	Home() catalog.Home
	Plants(filter catalog.PlantFilter) ([]catalog.Plant, error)
	Suggest(query string) string
	Plant(slug string) (*catalog.Plant, error)
	FAQIntro() string
	FAQ() []catalog.FAQEntry
	About() catalog.About
	Opportunities() []catalog.Opportunity
	Join(userID id.UserID, opportunityID string) (string, bool, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// PlantsResponse carries a "did you mean" Suggestion when a search finds nothing.
type PlantsResponse struct {
	Plants     []catalog.Plant `json:"plants"`
	Suggestion string          `json:"suggestion,omitempty"`
}

type FAQResponse struct {
	Intro   string             `json:"intro"`
	Entries []catalog.FAQEntry `json:"entries"`
}

type OpportunitiesResponse struct {
	Opportunities []catalog.Opportunity `json:"opportunities"`
}

// JoinResponse reports Added=false when the user had already joined.
type JoinResponse struct {
	Message string `json:"message"`
	Added   bool   `json:"added"`
}

type ContentHandler struct {
	content ContentService
	audit   AuditPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewContentHandler(content ContentService, publisher AuditPublisher, m *metrics.Metrics, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{content: content, audit: publisher, metrics: m, logger: logger}
}

func (h *ContentHandler) Register(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Get("/home", h.handleHome)
	r.Get("/plants", h.handlePlants)
	r.Get("/plants/{slug}", h.handlePlant)
	r.Get("/faq", h.handleFAQ)
	r.Get("/about", h.handleAbout)
	r.Get("/volunteering", h.handleOpportunities)
	r.With(requireAuth).Post("/volunteering/{id}/join", h.handleJoin)
}

func (h *ContentHandler) handleHome(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.content.Home())
}

func (h *ContentHandler) handlePlants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	plants, err := h.content.Plants(catalog.PlantFilter{
		Category: catalog.Category(q.Get("category")),
		Query:    q.Get("q"),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := PlantsResponse{Plants: plants}
	if len(plants) == 0 {
		resp.Suggestion = h.content.Suggest(q.Get("q"))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *ContentHandler) handlePlant(w http.ResponseWriter, r *http.Request) {
	plant, err := h.content.Plant(chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, plant)
}

func (h *ContentHandler) handleFAQ(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FAQResponse{Intro: h.content.FAQIntro(), Entries: h.content.FAQ()})
}

func (h *ContentHandler) handleAbout(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.content.About())
}

func (h *ContentHandler) handleOpportunities(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, OpportunitiesResponse{Opportunities: h.content.Opportunities()})
}

func (h *ContentHandler) handleJoin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID := requestcontext.UserID(ctx)
	opportunityID := chi.URLParam(r, "id")

	message, added, err := h.content.Join(userID, opportunityID)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to join opportunity",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	if added {
		if h.metrics != nil {
			h.metrics.IncrementVolunteerSignups()
		}
		h.logger.InfoContext(ctx, string(audit.EventVolunteerJoined),
			"user_id", userID.String(),
			"opportunity_id", opportunityID,
			"request_id", requestID,
			"log_type", "audit",
		)
		if h.audit != nil {
			_ = h.audit.Emit(ctx, audit.Event{
				UserID:    userID,
				Email:     requestcontext.Email(ctx),
				Action:    string(audit.EventVolunteerJoined),
				Reason:    "opportunity:" + opportunityID,
				RequestID: requestID,
				ClientIP:  requestcontext.ClientIP(ctx),
			})
		}
	}
	httputil.WriteJSON(w, http.StatusOK, JoinResponse{Message: message, Added: added})
}
