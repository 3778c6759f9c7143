package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/classify"
	"bookcatalog/internal/response"
	"bookcatalog/internal/storage/books"
	"bookcatalog/internal/types"
)

type stubClassifier struct {
	preds       []classify.Prediction
	err         error
	gotInputs   []string
	gotExamples []classify.Example
}

func (s *stubClassifier) Classify(_ context.Context, inputs []string, examples []classify.Example) ([]classify.Prediction, error) {
	s.gotInputs = inputs
	s.gotExamples = examples
	return s.preds, s.err
}

func testCatalog() []*types.Book {
	months := []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	genres := []string{"Fantasy", "Romance", "Science Fiction"}

	ret := make([]*types.Book, 0, 25)
	for i := 0; i < 25; i++ {
		ret = append(ret, &types.Book{
			Id:            fmt.Sprintf("book-%02d", i),
			Title:         fmt.Sprintf("Catalog Volume %02d", i),
			Author:        fmt.Sprintf("Author %d", i%7),
			Summary:       fmt.Sprintf("Story number %d", i),
			Genre:         genres[i%3],
			Price:         float64(5 + i%10),
			PublishedDate: fmt.Sprintf("%d %s %d", i%27+1, months[i%12], 1999+i),
		})
	}

	return ret
}

func newTestHandler(cl classify.Classifier) http.Handler {
	return Handler(
		books.NewMemoryRepository(testCatalog()...),
		cl,
		&response.Responder{DebugMode: true},
	)
}

func doGet(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func doPost(h http.Handler, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type listResponse struct {
	Books      []types.Book   `json:"books"`
	Pagination types.PageInfo `json:"pagination"`
}

func TestListBooksPagination(t *testing.T) {
	h := newTestHandler(&stubClassifier{})

	rec := doGet(h, "/book?limit=10")
	require.Equal(t, http.StatusOK, rec.Code)

	var page1 listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page1))
	assert.Len(t, page1.Books, 10)
	assert.Equal(t, types.PageInfo{
		CurrentPage: 1, TotalPages: 3, TotalItems: 25,
		ItemsPerPage: 10, HasNextPage: true, HasPrevPage: false,
	}, page1.Pagination)

	rec = doGet(h, "/book?limit=10&page=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var page3 listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page3))
	assert.Len(t, page3.Books, 5)
	assert.False(t, page3.Pagination.HasNextPage)
	assert.True(t, page3.Pagination.HasPrevPage)
}

func TestListBooksDefaultSortIsNewest(t *testing.T) {
	h := newTestHandler(&stubClassifier{})

	rec := doGet(h, "/book")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Books)
	// the newest fixture record was published in 2023
	assert.Equal(t, "book-24", resp.Books[0].Id)
	assert.Contains(t, resp.Books[0].PublishedDate, "2023")
}

func TestListBooksFiltered(t *testing.T) {
	h := newTestHandler(&stubClassifier{})

	rec := doGet(h, "/book?genre=Romance&limit=50")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 8, resp.Pagination.TotalItems)
	for _, b := range resp.Books {
		assert.Equal(t, "Romance", b.Genre)
	}
}

func TestGetBookById(t *testing.T) {
	h := newTestHandler(&stubClassifier{})

	rec := doGet(h, "/book/book-12")
	require.Equal(t, http.StatusOK, rec.Code)

	var book types.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &book))
	assert.Equal(t, "Catalog Volume 12", book.Title)

	// the _id query param short-circuits the list pipeline
	rec = doGet(h, "/book?_id=book-12&genre=ignored")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &book))
	assert.Equal(t, "book-12", book.Id)
}

func TestGetBookByIdNotFound(t *testing.T) {
	h := newTestHandler(&stubClassifier{})

	rec := doGet(h, "/book/missing")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Book not found", resp["message"])
}

func TestBookResponseOmitsProvenance(t *testing.T) {
	h := newTestHandler(&stubClassifier{})

	rec := doGet(h, "/book/book-00")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "scrape_date")
	assert.NotContains(t, raw, "source_url")
}

func TestRandomBook(t *testing.T) {
	h := newTestHandler(&stubClassifier{})

	rec := doGet(h, "/random_book?genre=Fantasy")
	require.Equal(t, http.StatusOK, rec.Code)

	var book types.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &book))
	assert.Equal(t, "Fantasy", book.Genre)
}

func TestRandomBookNotFoundEchoesFilter(t *testing.T) {
	h := newTestHandler(&stubClassifier{})

	rec := doGet(h, "/random_book?genre=Western&year=1812&keyword=whales")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], `genre: "Western"`)
	assert.Contains(t, resp["message"], "year: 1812")
	assert.Contains(t, resp["message"], `keyword: "whales"`)
}

func TestGenreStats(t *testing.T) {
	h := newTestHandler(&stubClassifier{})

	rec := doGet(h, "/stats/genre")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		GenreStatistics []types.GenreCount `json:"genre_statistics"`
		TotalGenres     int                `json:"total_genres"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 3, resp.TotalGenres)

	var sum int64
	for _, row := range resp.GenreStatistics {
		sum += row.Count
	}
	assert.EqualValues(t, 25, sum)
}

func TestTopics(t *testing.T) {
	cl := &stubClassifier{preds: []classify.Prediction{
		{Input: "The new iPhone features are amazing", Label: "technology", Confidence: 0.97},
		{Input: "Bitcoin price is rising", Label: "finance", Confidence: 0.88},
		{Input: "The laptop performance is incredible", Label: "technology", Confidence: 0.91},
	}}
	h := newTestHandler(cl)

	rec := doPost(h, "/ai/topics", `{"texts": ["a", "b", "c"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"a", "b", "c"}, cl.gotInputs)
	assert.Equal(t, classify.TopicExamples, cl.gotExamples)

	var resp struct {
		TopicStatistics []struct {
			Topic string `json:"topic"`
			Count int    `json:"count"`
		} `json:"topic_statistics"`
		TotalTopics int `json:"total_topics"`
		Details     []struct {
			Text       string  `json:"text"`
			Topic      string  `json:"topic"`
			Confidence float64 `json:"confidence"`
		} `json:"classification_details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.TopicStatistics, 2)
	assert.Equal(t, "technology", resp.TopicStatistics[0].Topic)
	assert.Equal(t, 2, resp.TopicStatistics[0].Count)
	assert.Equal(t, "finance", resp.TopicStatistics[1].Topic)
	assert.Equal(t, 2, resp.TotalTopics)

	require.Len(t, resp.Details, 3)
	assert.Equal(t, "Bitcoin price is rising...", resp.Details[1].Text)
	assert.InDelta(t, 0.88, resp.Details[1].Confidence, 1e-9)
}

func TestSentiment(t *testing.T) {
	cl := &stubClassifier{preds: []classify.Prediction{
		{Input: "I love this product", Label: "positive", Confidence: 0.95},
		{Input: "It's okay", Label: "neutral", Confidence: 0.66},
	}}
	h := newTestHandler(cl)

	rec := doPost(h, "/ai/sentiment", `{"texts": ["x", "y"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, classify.SentimentExamples, cl.gotExamples)

	var resp struct {
		SentimentStatistics []struct {
			Sentiment string `json:"sentiment"`
			Count     int    `json:"count"`
		} `json:"sentiment_statistics"`
		TotalAnalyzed    int `json:"total_analyzed"`
		ConfidenceScores []struct {
			Text       string  `json:"text"`
			Sentiment  string  `json:"sentiment"`
			Confidence float64 `json:"confidence"`
		} `json:"confidence_scores"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.TotalAnalyzed)
	require.Len(t, resp.SentimentStatistics, 2)
	require.Len(t, resp.ConfidenceScores, 2)
	assert.Equal(t, "positive", resp.ConfidenceScores[0].Sentiment)
}

func TestTopicsRejectsNonArrayTexts(t *testing.T) {
	h := newTestHandler(&stubClassifier{})

	for _, body := range []string{
		`{"texts": "not an array"}`,
		`{"texts": 42}`,
		`{"texts": null}`,
		`{}`,
	} {
		rec := doPost(h, "/ai/topics", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp["message"], "must be an array")
	}
}

func TestClassifierFailureIsServerError(t *testing.T) {
	h := newTestHandler(&stubClassifier{err: errors.New("upstream unavailable")})

	rec := doPost(h, "/ai/topics", `{"texts": ["a"]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["message"])
}
