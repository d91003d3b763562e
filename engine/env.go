package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/phacochoerus/opendrive-engine/engine/kdtree"
	"github.com/phacochoerus/opendrive-engine/engine/model"
)

// Env owns a converted map: the published entity store and the spatial index
// over its lane center lines. It is created by running a full conversion
// pass and is read-only afterwards.
type Env struct {
	ctx  context.Context
	cf   context.CancelFunc
	done sync.WaitGroup

	config *Config
	data   *model.Data
	tree   *kdtree.Tree
}

func NewEnv(config *Config) (*Env, error) {
	ctx, cf := context.WithCancel(context.Background())

	env := &Env{
		ctx:    ctx,
		cf:     cf,
		config: config,
		data:   model.NewData(),
		tree:   kdtree.New(),
	}

	status := NewConvertor(config, env.data, env.tree).Start()
	if !status.OK() {
		cf()
		return nil, status.Err()
	}
	return env, nil
}

func (e *Env) Data() *model.Data {
	return e.data
}

// Query returns the k lane center-line points nearest to (x, y).
func (e *Env) Query(x, y float64, k int) ([]kdtree.Result, error) {
	return e.tree.Query(x, y, k)
}

// IndexedPoints returns the number of points in the spatial index.
func (e *Env) IndexedPoints() int {
	return e.tree.Len()
}

func (e *Env) Stop() {
	e.cf()
	e.done.Wait()
}

func (e *Env) StartServer(listen string) error {
	e.done.Add(1)
	defer e.done.Done()

	mux := http.NewServeMux()
	mux.HandleFunc("/nearest", e.handleNearest)

	s := &http.Server{
		Addr:           listen,
		Handler:        mux,
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		<-e.ctx.Done()
		ctx, cf := context.WithTimeout(context.Background(), 15*time.Second)
		defer cf()
		s.Shutdown(ctx)
	}()

	err := s.ListenAndServe()
	if err == http.ErrServerClosed {
		err = nil
	}
	return err
}

func (e *Env) handleNearest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	x, err := strconv.ParseFloat(q.Get("x"), 64)
	if err != nil {
		http.Error(w, "Bad x coordinate", http.StatusBadRequest)
		return
	}
	y, err := strconv.ParseFloat(q.Get("y"), 64)
	if err != nil {
		http.Error(w, "Bad y coordinate", http.StatusBadRequest)
		return
	}
	k := 1
	if v := q.Get("k"); v != "" {
		k, err = strconv.Atoi(v)
		if err != nil {
			http.Error(w, "Bad point count", http.StatusBadRequest)
			return
		}
	}

	results, err := e.Query(x, y, k)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}
