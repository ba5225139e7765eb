package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"

	"tlp/database"
	"tlp/dataset"
	"tlp/trainer"
)

// WebUI представляет веб-интерфейс для обучения перцептрона
type WebUI struct {
	db    *database.Database
	mutex sync.Mutex

	trainer *trainer.Trainer
	cancel  context.CancelFunc
	done    chan struct{}
	lastErr string

	running *atomic.Bool
}

// NewWebUI создает новый веб-интерфейс. db может быть nil.
func NewWebUI(db *database.Database) *WebUI {
	return &WebUI{
		db:      db,
		running: atomic.NewBool(false),
	}
}

// Handler возвращает маршруты веб-интерфейса
func (w *WebUI) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", w.handleIndex)
	mux.HandleFunc("/api/targets", w.handleTargets)
	mux.HandleFunc("/api/train", w.handleTrain)
	mux.HandleFunc("/api/stop", w.handleStop)
	mux.HandleFunc("/api/status", w.handleStatus)
	mux.HandleFunc("/api/result", w.handleResult)
	mux.HandleFunc("/api/runs", w.handleRuns)
	return mux
}

// Start запускает веб-сервер
func (w *WebUI) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Starting web server on http://localhost%s\n", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      w.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server.ListenAndServe()
}

// Wait ждет завершения текущего обучения
func (w *WebUI) Wait() {
	w.mutex.Lock()
	done := w.done
	w.mutex.Unlock()
	if done != nil {
		<-done
	}
}

// handleIndex возвращает HTML страницу
func (w *WebUI) handleIndex(rw http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(rw, r)
		return
	}
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.Write([]byte(htmlPage))
}

// TargetInfo описывает целевую функцию для формы
type TargetInfo struct {
	Name    string `json:"name"`
	Formula string `json:"formula"`
}

// handleTargets возвращает список доступных целевых функций
func (w *WebUI) handleTargets(rw http.ResponseWriter, r *http.Request) {
	var targets []TargetInfo
	for _, name := range dataset.Names() {
		targets = append(targets, TargetInfo{Name: name, Formula: dataset.Describe(name)})
	}
	writeJSON(rw, targets)
}

// handleTrain запускает обучение в отдельной горутине
func (w *WebUI) handleTrain(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(rw, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := trainer.DefaultConfig()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(rw, "Invalid request", http.StatusBadRequest)
		return
	}

	if !w.running.CompareAndSwap(false, true) {
		http.Error(rw, "Training is already running", http.StatusConflict)
		return
	}

	tr, err := trainer.NewTrainer(cfg, w.db)
	if err != nil {
		w.running.Store(false)
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	w.mutex.Lock()
	w.trainer = tr
	w.cancel = cancel
	w.done = done
	w.lastErr = ""
	w.mutex.Unlock()

	go w.runTraining(ctx, tr, done)

	writeJSON(rw, map[string]interface{}{"success": true, "config": tr.Config()})
}

// runTraining выполняет обучение и сохраняет ошибку, если она возникла
func (w *WebUI) runTraining(ctx context.Context, tr *trainer.Trainer, done chan struct{}) {
	defer close(done)
	defer w.running.Store(false)

	err := tr.Run(ctx, false)

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err != nil && err != context.Canceled {
		w.lastErr = err.Error()
	}
	w.cancel = nil
}

// handleStop останавливает обучение
func (w *WebUI) handleStop(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(rw, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.mutex.Lock()
	cancel := w.cancel
	w.mutex.Unlock()

	if !w.running.Load() || cancel == nil {
		http.Error(rw, "Training is not running", http.StatusBadRequest)
		return
	}
	cancel()

	writeJSON(rw, map[string]bool{"success": true})
}

// Status представляет состояние обучения
type Status struct {
	Running    bool   `json:"running"`
	TrainCount int64  `json:"trainCount"`
	RunID      int64  `json:"runId"`
	LastError  Number `json:"lastError"`
	Failure    string `json:"failure,omitempty"`
}

// handleStatus возвращает статус обучения
func (w *WebUI) handleStatus(rw http.ResponseWriter, r *http.Request) {
	w.mutex.Lock()
	tr := w.trainer
	status := Status{Failure: w.lastErr}
	w.mutex.Unlock()

	status.Running = w.running.Load()
	if tr != nil {
		status.TrainCount = tr.Network().TrainCount()
		status.RunID = tr.RunID()
		if last, ok := tr.Errors().Last(); ok {
			status.LastError = Number(last.AvgError)
		}
	}
	writeJSON(rw, status)
}

// Result содержит данные для двух графиков
type Result struct {
	Training []Point        `json:"training"`
	Fit      Curves         `json:"fit"`
	Errors   []Point        `json:"errors"`
	Config   trainer.Config `json:"config"`
}

// handleResult возвращает обучающие данные, выход сети и историю ошибки
func (w *WebUI) handleResult(rw http.ResponseWriter, r *http.Request) {
	w.mutex.Lock()
	tr := w.trainer
	w.mutex.Unlock()

	if tr == nil {
		http.Error(rw, "No training has been run", http.StatusNotFound)
		return
	}

	steps := tr.Config().Period
	if s, err := strconv.Atoi(r.URL.Query().Get("steps")); err == nil && s > 1 {
		steps = s
	}

	writeJSON(rw, Result{
		Training: samplePoints(dataset.Sorted(tr.Observed())),
		Fit:      fitCurves(tr.Fit(steps)),
		Errors:   errorPoints(tr.Errors().GetPoints()),
		Config:   tr.Config(),
	})
}

// handleRuns возвращает историю запусков из базы данных
func (w *WebUI) handleRuns(rw http.ResponseWriter, r *http.Request) {
	if w.db == nil {
		writeJSON(rw, []database.RunRecord{})
		return
	}

	runs, err := w.db.ListRuns(20)
	if err != nil {
		http.Error(rw, "Failed to load runs", http.StatusInternalServerError)
		return
	}
	writeJSON(rw, runs)
}

func writeJSON(rw http.ResponseWriter, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(rw, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.Write(buf.Bytes())
}
