package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/vocabgym/internal/database"
	"github.com/example/vocabgym/internal/excel"
	"github.com/example/vocabgym/internal/scheduler"
	"github.com/example/vocabgym/internal/server"
	"github.com/example/vocabgym/internal/srs"
	"github.com/example/vocabgym/internal/study"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	sessionRepo := database.NewSessionRepository()
	vocabRepo := database.NewVocabularyRepository()
	wordRepo := database.NewWordRepository()

	selector := srs.NewSelector(rand.New(rand.NewSource(time.Now().UnixNano())))
	pool := study.NewPool(vocabRepo, wordRepo)
	studySvc := study.NewService(sessionRepo, vocabRepo, wordRepo, selector, pool)
	dueSvc := study.NewDueService(vocabRepo, wordRepo)
	vocabSvc := study.NewVocabularyService(vocabRepo, wordRepo)
	importer := excel.NewImporter(wordRepo)

	sched := scheduler.New(vocabRepo, dueSvc, scheduler.LogNotifier{})
	sched.Start()
	defer sched.Stop()

	srv := server.New(studySvc, dueSvc, vocabSvc, wordRepo, importer)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := srv.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal: %v", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped")
}
