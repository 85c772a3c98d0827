package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"

	"watch/internal/domain"
	"watch/internal/topics"
)

const maxSubscribeLen = 64 << 10

type newsGetter interface {
	GetNews(ctx context.Context) ([]domain.NewsItem, error)
	LastComputed() (time.Time, bool)
}

type topicCatalog interface {
	Verses() map[string]topics.TopicVerses
	Has(id string) bool
}

type subscriptionStore interface {
	Add(ctx context.Context, sub domain.Subscription) error
	Count(ctx context.Context) (int, error)
}

type notifyStatus interface {
	Last() *time.Time
}

type Handler struct {
	log       *slog.Logger
	news      newsGetter
	catalog   topicCatalog
	subs      subscriptionStore
	status    notifyStatus
	publicKey string
}

func NewHandler(
	log *slog.Logger,
	news newsGetter,
	catalog topicCatalog,
	subs subscriptionStore,
	status notifyStatus,
	publicKey string,
) *Handler {
	return &Handler{
		log:       log,
		news:      news,
		catalog:   catalog,
		subs:      subs,
		status:    status,
		publicKey: publicKey,
	}
}

type newsItemResponse struct {
	Source  string   `json:"source"`
	Title   string   `json:"title"`
	Link    string   `json:"link"`
	IsoDate *string  `json:"isoDate"`
	Topics  []string `json:"topics"`
}

type newsResponse struct {
	Items []newsItemResponse `json:"items"`
}

func toNewsItemResponse(item domain.NewsItem, _ int) newsItemResponse {
	resp := newsItemResponse{
		Source:  item.Source,
		Title:   item.Title,
		Link:    item.Link,
		IsoDate: item.ISODate(),
		Topics:  item.Topics,
	}
	if resp.Topics == nil {
		resp.Topics = []string{}
	}
	return resp
}

// getNews - хендлер для эндпоинта GET /api/news
func (h *Handler) getNews(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/getNews"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", getRequestID(r.Context())),
	)
	if r.Method != http.MethodGet {
		log.Warn("method not allowed")
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			log.Warn("invalid limit parameter", slog.String("limit", limitStr))
			respondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
	}
	topic := r.URL.Query().Get("topic")
	if topic != "" && !h.catalog.Has(topic) {
		log.Warn("unknown topic parameter", slog.String("topic", topic))
		respondWithError(w, http.StatusBadRequest, "Unknown 'topic' parameter")
		return
	}

	news, err := h.news.GetNews(r.Context())
	if err != nil {
		log.Error("Failed to get news", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch news")
		return
	}
	if topic != "" {
		news = lo.Filter(news, func(item domain.NewsItem, _ int) bool {
			return item.HasTopic(topic)
		})
	}
	if limit > 0 && len(news) > limit {
		news = news[:limit]
	}

	respondWithJSON(w, http.StatusOK, newsResponse{Items: lo.Map(news, toNewsItemResponse)})
}

// getVerses - хендлер для эндпоинта GET /api/verses
func (h *Handler) getVerses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, h.catalog.Verses())
}

// getVapidPublicKey - хендлер для эндпоинта GET /api/vapidPublicKey
func (h *Handler) getVapidPublicKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	var key *string
	if h.publicKey != "" {
		key = &h.publicKey
	}
	respondWithJSON(w, http.StatusOK, map[string]*string{"publicKey": key})
}

// subscribe - хендлер для эндпоинта POST /api/subscribe
func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/subscribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", getRequestID(r.Context())),
	)
	if r.Method != http.MethodPost {
		log.Warn("method not allowed")
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	var sub domain.Subscription
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubscribeLen)).Decode(&sub); err != nil || !sub.Valid() {
		log.Warn("invalid subscription", slog.Any("error", err))
		respondWithError(w, http.StatusBadRequest, "Invalid subscription")
		return
	}
	if err := h.subs.Add(r.Context(), sub); err != nil {
		log.Error("Failed to store subscription", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Failed to store subscription")
		return
	}
	log.Info("Subscription registered", slog.String("endpoint", sub.Endpoint))
	respondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// healthCheck - хендлер для проверки состояния сервиса
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if n, err := h.subs.Count(r.Context()); err == nil {
		resp["subscriptions"] = n
	}
	var last *string
	if t := h.status.Last(); t != nil {
		s := t.UTC().Format(domain.ISOLayout)
		last = &s
	}
	resp["lastNotified"] = last
	var computed *string
	if t, ok := h.news.LastComputed(); ok {
		s := t.UTC().Format(domain.ISOLayout)
		computed = &s
	}
	resp["lastComputed"] = computed
	respondWithJSON(w, http.StatusOK, resp)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
