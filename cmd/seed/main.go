// Command seed loads a demo roster into a running lineup service and
// replays a handful of match-participation facts, twice, to demonstrate
// idempotent ingestion and burn anchoring.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/okian/lineup/internal/domain/model"
)

// Default configuration constants.
const (
	defaultFacts   = 40
	defaultTimeout = 10 * time.Second
	randomSeed     = 42
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		facts   = flag.Int("facts", defaultFacts, "Number of participation facts to generate")
		replay  = flag.Bool("replay", true, "Replay every fact a second time to exercise dedupe")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	client := &http.Client{Timeout: *timeout}
	rng := rand.New(rand.NewSource(randomSeed)) //nolint:gosec // deterministic demo data

	roster := demoRoster()
	if err := putJSON(client, *baseURL+"/players", roster); err != nil {
		fail("load roster", err)
	}
	fmt.Printf("loaded %d players\n", len(roster))

	generated := make([]map[string]any, 0, *facts)
	for i := 0; i < *facts; i++ {
		p := roster[rng.Intn(len(roster))]
		generated = append(generated, map[string]any{
			"match_id":    uuid.NewString(),
			"player_id":   p.ID,
			"team_number": 1 + rng.Intn(3),
			"phase":       string(model.PhaseAller),
			"journee":     1 + rng.Intn(7),
		})
	}

	passes := 1
	if *replay {
		passes = 2
	}
	duplicates := 0
	for pass := 0; pass < passes; pass++ {
		for _, fact := range generated {
			dup, err := postFact(client, *baseURL+"/participations", fact)
			if err != nil {
				fail("post fact", err)
			}
			if dup {
				duplicates++
			}
		}
	}
	fmt.Printf("sent %d facts in %d pass(es), %d acknowledged as duplicates\n",
		len(generated)*passes, passes, duplicates)
}

// demoRoster is a small club roster with the categories the engine cares
// about: points order, a female player, a foreign player.
func demoRoster() []model.Player {
	return []model.Player{
		{ID: "p1", Name: "Jean", Points: 1200, Gender: model.GenderMale, Nationality: model.NationalityDomestic, Active: true},
		{ID: "p2", Name: "Marie", Points: 1100, Gender: model.GenderFemale, Nationality: model.NationalityDomestic, Active: true},
		{ID: "p3", Name: "Pierre", Points: 1000, Gender: model.GenderMale, Nationality: model.NationalityForeign, Active: true},
		{ID: "p4", Name: "Sophie", Points: 950, Gender: model.GenderFemale, Nationality: model.NationalityDomestic, Active: true},
		{ID: "p5", Name: "Luc", Points: 900, Gender: model.GenderMale, Nationality: model.NationalityEuropean, Active: true},
		{ID: "p6", Name: "Hugo", Points: 850, Gender: model.GenderMale, Nationality: model.NationalityDomestic, Active: true},
	}
}

func putJSON(client *http.Client, url string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

func postFact(client *http.Client, url string, fact map[string]any) (duplicate bool, err error) {
	body, err := json.Marshal(fact)
	if err != nil {
		return false, fmt.Errorf("marshal: %w", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusAccepted {
		return false, fmt.Errorf("unexpected status %s", resp.Status)
	}
	var ack struct {
		Duplicate bool `json:"duplicate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return false, fmt.Errorf("decode ack: %w", err)
	}
	return ack.Duplicate, nil
}

func fail(what string, err error) {
	os.Stderr.WriteString("failed to " + what + ": " + err.Error() + "\n")
	os.Exit(1)
}
