package server

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/karupanerura/par5er/internal/batch"
	"github.com/karupanerura/par5er/internal/types"
)

const basePath = "/v1/evaluations"

const (
	succeededState = "SUCCEEDED"
	failedState    = "FAILED"
)

type evaluation struct {
	seq uint64

	Name      string        `json:"name"`
	Source    string        `json:"source"`
	Tree      string        `json:"tree,omitempty"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	State     string        `json:"state"`
	Result    *types.Number `json:"result,omitempty"`
	Error     any           `json:"error,omitempty"`
}

type evaluationRequest struct {
	Expression string `json:"expression"`
}

type httpHandler struct {
	idBase      uint64
	evaluations sync.Map
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == basePath:
		switch r.Method {
		case http.MethodGet:
			h.listEvaluations(w, r)
			return

		case http.MethodPost:
			h.createEvaluation(w, r)
			return

		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

	case strings.HasPrefix(r.URL.Path, basePath+"/"):
		id := strings.TrimPrefix(r.URL.Path, basePath+"/")
		if id == "" || strings.IndexByte(id, '/') != -1 {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}

		switch r.Method {
		case http.MethodGet:
			h.getEvaluation(w, r, id)
			return

		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

	default:
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
}

func (h *httpHandler) createEvaluation(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req evaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("failed to decode request body: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	seq := atomic.AddUint64(&h.idBase, 1)
	id := fmt.Sprintf("%012x", seq)
	ev := &evaluation{
		seq:       seq,
		Name:      basePath + "/" + id,
		Source:    req.Expression,
		StartTime: time.Now().UTC(),
	}

	result := batch.Evaluate(batch.Entry{Name: ev.Name, Source: ev.Source})
	ev.EndTime = time.Now().UTC()
	ev.Tree = result.Tree
	if result.Err != nil {
		ev.State = failedState
		ev.Error = types.AsException(result.Err).Exception()
	} else {
		ev.State = succeededState
		n := types.Number(result.Value)
		ev.Result = &n
	}

	h.evaluations.Store(id, ev)
	if err := resJSON(w, http.StatusOK, ev); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (h *httpHandler) listEvaluations(w http.ResponseWriter, r *http.Request) {
	results := []*evaluation{}
	h.evaluations.Range(func(key, value any) bool {
		results = append(results, value.(*evaluation))
		return true
	})
	sort.Slice(results, func(i, j int) bool {
		return results[i].seq < results[j].seq
	})

	if err := resJSON(w, http.StatusOK, map[string][]*evaluation{"evaluations": results}); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (h *httpHandler) getEvaluation(w http.ResponseWriter, r *http.Request, id string) {
	ret, ok := h.evaluations.Load(id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err := resJSON(w, http.StatusOK, ret.(*evaluation)); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

// NewHTTPHandler serves the evaluation API under /v1/evaluations. Stored
// evaluations are immutable once created and live as long as the handler.
func NewHTTPHandler() http.Handler {
	return &httpHandler{}
}

func resJSON(w http.ResponseWriter, status int, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)+1))
	w.WriteHeader(status)

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
