package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"bookcatalog/internal/classify"
	"bookcatalog/internal/response"
	"bookcatalog/internal/storage/books"
	"bookcatalog/internal/types"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

func Handler(br books.Repository, cl classify.Classifier, rr *response.Responder) http.Handler {
	r := chi.NewRouter()

	r.Get("/book", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		// An explicit id bypasses filtering, sorting and pagination.
		if id := strings.TrimSpace(q.Get("_id")); id != "" {
			sendBookById(w, r, br, rr, id)
			return
		}

		page := getIntOrDefault("page", q, defaultPage)
		limit := getIntOrDefault("limit", q, defaultLimit)

		sort := books.SortNewest
		if s := q.Get("sort"); s != "" {
			sort = books.Sort(s)
		}

		rows, total, err := br.Search(r.Context(), filterFromQuery(q), sort, limit, (page-1)*limit)
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		if rows == nil {
			rows = make([]*types.Book, 0)
		}

		rr.SendJson(w, r.Context(), struct {
			Books      []*types.Book  `json:"books"`
			Pagination types.PageInfo `json:"pagination"`
		}{
			Books:      rows,
			Pagination: types.NewPageInfo(page, limit, total),
		})
	})

	r.Get("/book/{id}", func(w http.ResponseWriter, r *http.Request) {
		sendBookById(w, r, br, rr, chi.URLParam(r, "id"))
	})

	r.Get("/random_book", func(w http.ResponseWriter, r *http.Request) {
		f := filterFromQuery(r.URL.Query())

		book, err := br.SampleOne(r.Context(), f)
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		if book == nil {
			rr.SendMessage(w, r.Context(), http.StatusNotFound, noMatchMessage(f))
			return
		}

		rr.SendJson(w, r.Context(), book)
	})

	r.Get("/stats/genre", func(w http.ResponseWriter, r *http.Request) {
		rows, err := br.GenreCounts(r.Context())
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		if rows == nil {
			rows = make([]types.GenreCount, 0)
		}

		rr.SendJson(w, r.Context(), struct {
			GenreStatistics []types.GenreCount `json:"genre_statistics"`
			TotalGenres     int                `json:"total_genres"`
		}{
			GenreStatistics: rows,
			TotalGenres:     len(rows),
		})
	})

	r.Post("/ai/topics", func(w http.ResponseWriter, r *http.Request) {
		texts, ok := decodeTexts(w, r, rr)
		if !ok {
			return
		}

		preds, err := cl.Classify(r.Context(), texts, classify.TopicExamples)
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		stats := classify.CountLabels(preds)

		counts := make([]topicCount, 0, len(stats))
		for _, s := range stats {
			counts = append(counts, topicCount{Topic: s.Label, Count: s.Count})
		}

		details := make([]topicDetail, 0, len(preds))
		for _, p := range preds {
			details = append(details, topicDetail{
				Text:       classify.Snippet(p.Input),
				Topic:      p.Label,
				Confidence: p.Confidence,
			})
		}

		rr.SendJson(w, r.Context(), struct {
			TopicStatistics []topicCount  `json:"topic_statistics"`
			TotalTopics     int           `json:"total_topics"`
			Details         []topicDetail `json:"classification_details"`
		}{
			TopicStatistics: counts,
			TotalTopics:     len(counts),
			Details:         details,
		})
	})

	r.Post("/ai/sentiment", func(w http.ResponseWriter, r *http.Request) {
		texts, ok := decodeTexts(w, r, rr)
		if !ok {
			return
		}

		preds, err := cl.Classify(r.Context(), texts, classify.SentimentExamples)
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		stats := classify.CountLabels(preds)

		counts := make([]sentimentCount, 0, len(stats))
		for _, s := range stats {
			counts = append(counts, sentimentCount{Sentiment: s.Label, Count: s.Count})
		}

		scores := make([]sentimentScore, 0, len(preds))
		for _, p := range preds {
			scores = append(scores, sentimentScore{
				Text:       classify.Snippet(p.Input),
				Sentiment:  p.Label,
				Confidence: p.Confidence,
			})
		}

		rr.SendJson(w, r.Context(), struct {
			SentimentStatistics []sentimentCount `json:"sentiment_statistics"`
			TotalAnalyzed       int              `json:"total_analyzed"`
			ConfidenceScores    []sentimentScore `json:"confidence_scores"`
		}{
			SentimentStatistics: counts,
			TotalAnalyzed:       len(texts),
			ConfidenceScores:    scores,
		})
	})

	return r
}

type topicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type topicDetail struct {
	Text       string  `json:"text"`
	Topic      string  `json:"topic"`
	Confidence float64 `json:"confidence"`
}

type sentimentCount struct {
	Sentiment string `json:"sentiment"`
	Count     int    `json:"count"`
}

type sentimentScore struct {
	Text       string  `json:"text"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

func sendBookById(w http.ResponseWriter, r *http.Request, br books.Repository, rr *response.Responder, id string) {
	book, err := br.GetById(r.Context(), id)
	if err != nil {
		rr.RespondAndLogError(w, r.Context(), err)
		return
	}

	if book == nil {
		rr.SendMessage(w, r.Context(), http.StatusNotFound, "Book not found")
		return
	}

	rr.SendJson(w, r.Context(), book)
}

func filterFromQuery(q url.Values) books.Filter {
	return books.Filter{
		Keyword: q.Get("keyword"),
		Genre:   q.Get("genre"),
		Year:    q.Get("year"),
	}
}

func noMatchMessage(f books.Filter) string {
	msg := "No book matched the given criteria"
	if f.Genre != "" {
		msg += fmt.Sprintf(" genre: %q", f.Genre)
	}
	if f.Year != "" {
		msg += " year: " + f.Year
	}
	if f.Keyword != "" {
		msg += fmt.Sprintf(" keyword: %q", f.Keyword)
	}

	return msg
}

func decodeTexts(w http.ResponseWriter, r *http.Request, rr *response.Responder) ([]string, bool) {
	var body struct {
		Texts json.RawMessage `json:"texts"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rr.SendMessage(w, r.Context(), http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return nil, false
	}

	var texts []string
	if len(body.Texts) == 0 || json.Unmarshal(body.Texts, &texts) != nil || texts == nil {
		rr.SendMessage(w, r.Context(), http.StatusBadRequest, "Input 'texts' must be an array of strings")
		return nil, false
	}

	return texts, true
}

func getIntOrDefault(key string, q url.Values, default_ int) int {
	if ls := q.Get(key); ls != "" {
		val, err := strconv.Atoi(ls)
		if err == nil {
			return val
		}
	}

	return default_
}
