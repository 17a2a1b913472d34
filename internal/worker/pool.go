package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"voxbridge/internal/models"
	"voxbridge/internal/repository"
)

const (
	maxArchiveAttempts = 3
	lockTTL            = 10 * time.Minute
	popTimeout         = 30 * time.Second
)

// Pool drains the transcript queue into Postgres. Archiving rides a
// queue so a slow or briefly unavailable database never delays the
// spoken response path.
type Pool struct {
	redis       *redis.Client
	transcripts *repository.TranscriptRepo
	workerCount int
	stopChan    chan struct{}
}

func NewPool(redisClient *redis.Client, transcripts *repository.TranscriptRepo, workerCount int) *Pool {
	return &Pool{
		redis:       redisClient,
		transcripts: transcripts,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}

	log.Printf("Started %d archive worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, popTimeout, models.TranscriptQueue).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var tr models.Transcript
		if err := json.Unmarshal([]byte(result[1]), &tr); err != nil {
			log.Printf("Worker %d: failed to parse transcript: %v", id, err)
			continue
		}

		// Try to acquire lock
		lockKey := fmt.Sprintf("transcript_lock:%s", tr.ID)
		locked, err := p.redis.SetNX(ctx, lockKey, "1", lockTTL).Result()
		if err != nil || !locked {
			continue // Another worker has this record
		}

		if err := p.transcripts.Insert(ctx, &tr); err != nil {
			p.handleFailure(ctx, &tr, err)
		} else {
			p.redis.Del(ctx, attemptsKey(tr.ID))
			log.Printf("Worker %d: archived transcript %s for session %s", id, tr.ID, tr.SessionID)
		}

		// Release lock
		p.redis.Del(ctx, lockKey)
	}
}

func (p *Pool) handleFailure(ctx context.Context, tr *models.Transcript, err error) {
	attempts, incrErr := p.redis.Incr(ctx, attemptsKey(tr.ID)).Result()
	if incrErr != nil {
		attempts = maxArchiveAttempts
	}
	p.redis.Expire(ctx, attemptsKey(tr.ID), time.Hour)

	if attempts < maxArchiveAttempts {
		// Re-queue with backoff
		log.Printf("Transcript %s archive failed (attempt %d): %v, retrying", tr.ID, attempts, err)
		body, _ := json.Marshal(tr)
		backoff := time.Duration(1<<uint(attempts)) * time.Second
		time.AfterFunc(backoff, func() {
			p.redis.LPush(context.Background(), models.TranscriptQueue, string(body))
		})
		return
	}

	// Max retries reached, drop the record
	log.Printf("Transcript %s archive failed permanently: %v", tr.ID, err)
	p.redis.Del(ctx, attemptsKey(tr.ID))
}

func attemptsKey(id uuid.UUID) string {
	return fmt.Sprintf("transcript_attempts:%s", id)
}
