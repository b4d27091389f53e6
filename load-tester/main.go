package main

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type Config struct {
	Endpoint           string
	Secret             string
	Total              int
	Rate               int
	Concurrency        int
	DuplicationPercent int
}

func parseFlags() *Config {
	c := &Config{}
	flag.StringVar(&c.Endpoint, "endpoint", "", "Target URL, e.g. http://localhost:8080/api/auth/sync (required)")
	flag.StringVar(&c.Secret, "secret", "", "JWT secret the target validates with (required)")
	flag.IntVar(&c.Total, "total", 10000, "Total requests")
	flag.IntVar(&c.Rate, "rate", 1000, "Requests per second")
	flag.IntVar(&c.Concurrency, "concurrency", 0, "Worker count (0=auto)")
	flag.IntVar(&c.DuplicationPercent, "duplication-percent", 0, "Percent of requests re-sending an already synced user (0 = all unique)")
	flag.Parse()

	if c.Endpoint == "" || c.Secret == "" {
		fmt.Fprintln(os.Stderr, "Error: -endpoint and -secret are required")
		flag.Usage()
		os.Exit(1)
	}

	if c.Concurrency == 0 {
		c.Concurrency = c.Rate / 20 // Auto-scale workers
		if c.Concurrency < 50 {
			c.Concurrency = 50
		}
	}

	if c.DuplicationPercent > 100 {
		c.DuplicationPercent = 100
	} else if c.DuplicationPercent < 0 {
		c.DuplicationPercent = 0
	}

	return c
}

type Stats struct {
	ok      uint64
	errors  uint64
	latency int64 // microseconds
}

func (s *Stats) AddOK(duration time.Duration) {
	atomic.AddUint64(&s.ok, 1)
	atomic.AddInt64(&s.latency, duration.Microseconds())
}

func (s *Stats) AddError() {
	atomic.AddUint64(&s.errors, 1)
}

func (s *Stats) StartLogger(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	var lastOK, lastErr uint64

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok := atomic.LoadUint64(&s.ok)
			errs := atomic.LoadUint64(&s.errors)
			latTotal := atomic.LoadInt64(&s.latency)

			curOK := ok - lastOK
			curErr := errs - lastErr
			lastOK, lastErr = ok, errs

			avgLat := 0.0
			if ok > 0 {
				avgLat = float64(latTotal) / float64(ok) / 1000.0
			}

			log.Printf("[STATS] 1s -> OK: %d | ERR: %d | AvgLat: %.2fms | Total OK: %d", curOK, curErr, avgLat, ok)
		}
	}
}

// syncRequest is one user sync payload plus the bearer token minted for it.
type syncRequest struct {
	UID   string
	Token string
	Body  []byte
}

// UserPool holds already-sent users so the duplication option can re-send
// them and drive the upsert path instead of fresh inserts.
type UserPool struct {
	mu  sync.RWMutex
	buf []syncRequest
	max int
}

func NewUserPool(max int) *UserPool {
	return &UserPool{buf: make([]syncRequest, 0, max), max: max}
}

func (p *UserPool) Add(req syncRequest) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.buf) >= p.max {
		p.buf = p.buf[1:]
	}
	p.buf = append(p.buf, req)
}

func (p *UserPool) GetRandom(rng *rand.Rand) (syncRequest, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.buf) == 0 {
		return syncRequest{}, false
	}
	return p.buf[rng.Intn(len(p.buf))], true
}

func main() {
	cfg := parseFlags()
	stats := &Stats{}
	pool := NewUserPool(10000)

	// High-performance HTTP Client
	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        cfg.Concurrency,
			MaxIdleConnsPerHost: cfg.Concurrency, // Critical: Keep as many connections open as there are workers.
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}

	log.Printf("Starting Load Test: Target=%s Rate=%d/s Total=%d Workers=%d Dup=%d%%",
		cfg.Endpoint, cfg.Rate, cfg.Total, cfg.Concurrency, cfg.DuplicationPercent)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stats Logger
	go stats.StartLogger(ctx)

	// Job Queue
	jobs := make(chan struct{}, cfg.Rate*2)
	var wg sync.WaitGroup
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rngs := make([]*rand.Rand, cfg.Concurrency)
	for i := 0; i < cfg.Concurrency; i++ {
		rngs[i] = rand.New(rand.NewSource(rng.Int63()))
	}

	// Workers
	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go startWorker(client, cfg, jobs, stats, pool, rngs[i], &wg)
	}

	// Rate Limiter (Main Loop)
	remaining := cfg.Total
	for remaining > 0 {
		start := time.Now()
		batch := cfg.Rate
		if remaining < batch {
			batch = remaining
		}

		for i := 0; i < batch; i++ {
			jobs <- struct{}{}
		}
		remaining -= batch

		elapsed := time.Since(start)
		if elapsed < time.Second {
			time.Sleep(time.Second - elapsed)
		}
	}

	close(jobs)
	wg.Wait()

	log.Printf("DONE. Total OK: %d | Total Errors: %d", atomic.LoadUint64(&stats.ok), atomic.LoadUint64(&stats.errors))
}

func startWorker(client *http.Client, cfg *Config, jobs <-chan struct{}, stats *Stats, pool *UserPool, rng *rand.Rand, wg *sync.WaitGroup) {
	defer wg.Done()

	for range jobs {
		req := pickUser(rng, pool, cfg)
		start := time.Now()

		if err := sendSync(client, cfg.Endpoint, req); err != nil {
			stats.AddError()
		} else {
			stats.AddOK(time.Since(start))
		}
	}
}

func sendSync(client *http.Client, url string, sr syncRequest) error {
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(sr.Body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sr.Token)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}

	// Read and discard the body so the connection can be reused (Keep-Alive)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http status: %d", resp.StatusCode)
	}
	return nil
}

func pickUser(rng *rand.Rand, pool *UserPool, cfg *Config) syncRequest {
	if cfg.DuplicationPercent > 0 && rng.Intn(100) < cfg.DuplicationPercent {
		if req, ok := pool.GetRandom(rng); ok {
			return req
		}
	}
	req := generateRandomUser(rng, cfg.Secret)
	pool.Add(req)
	return req
}

var domains = []string{"example.com", "mail.test", "corp.example.org"}

func generateRandomUser(rng *rand.Rand, secret string) syncRequest {
	uid := fmt.Sprintf("load-uid-%d", rng.Intn(1_000_000))
	body, _ := json.Marshal(map[string]any{
		"external_uid": uid,
		"email":        fmt.Sprintf("%s@%s", uid, domains[rng.Intn(len(domains))]),
		"display_name": fmt.Sprintf("Load User %d", rng.Intn(100000)),
	})
	return syncRequest{UID: uid, Token: signHS256(secret, uid), Body: body}
}

// signHS256 mints a minimal HS256 JWT with a uid claim. Hand-rolled to keep
// this tool dependency free.
func signHS256(secret, uid string) string {
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, _ := json.Marshal(map[string]any{
		"uid": uid,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signingInput := header + "." + enc.EncodeToString(payload)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signingInput))
	return signingInput + "." + enc.EncodeToString(mac.Sum(nil))
}
