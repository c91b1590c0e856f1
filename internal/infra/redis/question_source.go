package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/ZurcLeo/melzao-sub000/internal/catalog"
	"github.com/ZurcLeo/melzao-sub000/internal/domain"
)

// QuestionSource caches a host's authored questions per level in Redis
// (JSON blob per host+level) and falls back to the wrapped source on miss.
// Key shape: game:questions:{hostID}:{level}
type QuestionSource struct {
	client *redis.Client
	source catalog.Source
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionSource(client *redis.Client, source catalog.Source, ttl time.Duration) *QuestionSource {
	return &QuestionSource{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *QuestionSource) QuestionsFor(ctx context.Context, hostID string, level int) ([]domain.Question, error) {
	key := s.key(hostID, level)

	raw, err := s.client.Get(ctx, key).Bytes()
	if err == nil {
		return decodeQuestions(raw)
	}

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		raw, err := s.client.Get(ctx, key).Bytes()
		if err == nil {
			return decodeQuestions(raw)
		}

		questions, err := s.source.QuestionsFor(ctx, hostID, level)
		if err != nil {
			return nil, err
		}

		if encoded, err := json.Marshal(questions); err == nil {
			_ = s.client.Set(ctx, key, encoded, s.ttlWithJitter()).Err()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (s *QuestionSource) key(hostID string, level int) string {
	return fmt.Sprintf("game:questions:%s:%d", hostID, level)
}

func decodeQuestions(raw []byte) ([]domain.Question, error) {
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("decode cached questions: %w", err)
	}
	return questions, nil
}

func (s *QuestionSource) ttlWithJitter() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(s.ttl) / 10
	return s.ttl + time.Duration(s.rnd.Int63n(jitterMax+1))
}
