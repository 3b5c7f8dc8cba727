package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"inkwell/internal/utils/logger"
)

// queueWeights gives publish scans strict priority over background cleanup.
var queueWeights = map[string]int{
	QueueCritical: 6,
	QueueDefault:  3,
	QueueLow:      1,
}

// Server runs the asynq worker pool that executes background tasks.
type Server struct {
	server  *asynq.Server
	handler *TaskHandler
	logger  *logger.Logger
}

// NewServer builds a worker server backed by the given redis instance.
func NewServer(redisAddr, username, password string, db int, handler *TaskHandler, logger *logger.Logger) *Server {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
		asynq.Config{
			Concurrency:    10,
			Queues:         queueWeights,
			StrictPriority: true,
		},
	)

	return &Server{
		server:  srv,
		handler: handler,
		logger:  logger,
	}
}

// Start registers the task handlers and begins processing. It returns once
// the worker pool is running.
func (s *Server) Start(ctx context.Context) error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypePublishScan, s.handler.HandlePublishScan)
	mux.HandleFunc(TaskTypeMediaCleanup, s.handler.HandleMediaCleanup)

	s.logger.Info("starting task server, queues %v", queueWeights)

	if err := s.server.Start(mux); err != nil {
		return fmt.Errorf("failed to start task server: %w", err)
	}
	return nil
}

// Stop halts task processing without waiting for in-flight tasks.
func (s *Server) Stop() {
	s.server.Stop()
	s.logger.Info("task server stopped")
}

// Shutdown waits for in-flight tasks before stopping the worker pool.
func (s *Server) Shutdown() {
	s.logger.Info("shutting down task server")
	s.server.Shutdown()
}
