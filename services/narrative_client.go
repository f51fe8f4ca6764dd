package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"syndicate-engine/models"
)

// NarrativeClient talks to the external narrative collaborator. Every call
// degrades gracefully: when the service is unconfigured, rate limited or
// erroring, a canned line is returned and gameplay proceeds unchanged.
type NarrativeClient struct {
	BaseURL string
	Token   string
	Client  *http.Client

	Limiter *RateLimiter
	Cache   *ResponseCache
}

type generateResponse struct {
	Text       string   `json:"text"`
	Objectives []string `json:"objectives,omitempty"`
}

// BriefingResult is the scene-setting text plus the collaborator's rewritten
// objectives. Objectives stays empty on any fallback path; callers keep the
// static catalog list then.
type BriefingResult struct {
	Narrative  string   `json:"narrative"`
	Objectives []string `json:"objectives,omitempty"`
}

func NewNarrativeClient(baseURL, token string) *NarrativeClient {
	return &NarrativeClient{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
		Limiter: NewRateLimiter(),
		Cache:   NewResponseCache(),
	}
}

// Offline reports whether the collaborator is configured at all.
func (c *NarrativeClient) Offline() bool {
	return c.BaseURL == "" || c.Token == ""
}

// generate runs the full pipeline for one prompt: cache, offline check,
// rate limit, HTTP call. Any failure returns the matching fallback line.
func (c *NarrativeClient) generate(playerID string, payload map[string]interface{}, offline, limited, failed string) string {
	if cached, ok := c.Cache.Get(payload); ok {
		return cached
	}
	if c.Offline() {
		return offline
	}
	if !c.Limiter.Allow(playerID) {
		return limited
	}

	resp, err := c.post(payload)
	if err != nil {
		log.Printf("⚠️  Narrative service error: %v", err)
		return failed
	}
	c.Cache.Set(payload, resp.Text)
	return resp.Text
}

func (c *NarrativeClient) post(payload map[string]interface{}) (*generateResponse, error) {
	url := fmt.Sprintf("%s/v1/generate", c.BaseURL)

	jsonData, _ := json.Marshal(payload)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("Narrative service /v1/generate returned %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("narrative generation failed: %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if out.Text == "" {
		return nil, fmt.Errorf("narrative generation returned empty text")
	}
	return &out, nil
}

// MissionNarrative produces the debrief line for a resolved mission.
func (c *NarrativeClient) MissionNarrative(p *models.Player, m *models.Mission, success bool) string {
	payload := map[string]interface{}{
		"kind":     "mission_debrief",
		"mission":  m.ID,
		"title":    m.Title,
		"district": m.District,
		"success":  success,
		"faction":  p.Faction,
		"level":    p.Level,
	}

	var offline string
	if success {
		offline = fmt.Sprintf("[OFFLINE MODE] You executed the %s perfectly. The payout was secured.", m.Title)
	} else {
		offline = fmt.Sprintf("[OFFLINE MODE] The %s went sideways. You took some hits and had to bail.", m.Title)
	}
	limited := "The job resolves quickly. No witnesses, no complications. Another line added to your reputation."
	failed := "The operation concludes without incident. The city forgets, but your crew remembers."
	return c.generate(p.ID, payload, offline, limited, failed)
}

// MissionBriefing produces the scene-setting text shown before a decision,
// plus mission-specific objectives rewritten by the collaborator.
func (c *NarrativeClient) MissionBriefing(p *models.Player, m *models.Mission) BriefingResult {
	payload := map[string]interface{}{
		"kind":       "mission_briefing",
		"mission":    m.ID,
		"title":      m.Title,
		"district":   m.District,
		"profession": p.Profession,
		"level":      p.Level,
	}

	if cached, ok := c.Cache.Get(payload); ok {
		var out BriefingResult
		if err := json.Unmarshal([]byte(cached), &out); err == nil && out.Narrative != "" {
			return out
		}
	}
	if c.Offline() {
		return BriefingResult{Narrative: fmt.Sprintf("Infiltration of %s commenced.", m.District)}
	}
	if !c.Limiter.Allow(p.ID) {
		return BriefingResult{Narrative: "Mission objectives confirmed. Awaiting command."}
	}

	resp, err := c.post(payload)
	if err != nil {
		log.Printf("⚠️  Narrative service error: %v", err)
		return BriefingResult{Narrative: "Mission objectives confirmed. Awaiting command."}
	}
	out := BriefingResult{Narrative: resp.Text, Objectives: resp.Objectives}
	if data, err := json.Marshal(out); err == nil {
		c.Cache.Set(payload, string(data))
	}
	return out
}

// NewsUpdate produces the city news line shown after the daily maintenance.
func (c *NarrativeClient) NewsUpdate(p *models.Player) string {
	payload := map[string]interface{}{
		"kind":    "city_news",
		"faction": p.Faction,
		"heat":    p.Stats.Heat,
		"day":     p.Day,
	}

	offline := "Scanner chatter indicates increased patrols in Sector 4."
	limited := "System update: Network traffic nominal."
	failed := "Network interference detected."
	return c.generate(p.ID, payload, offline, limited, failed)
}

// MarketReport summarizes the latest price swings into a headline.
func (c *NarrativeClient) MarketReport(fluctuations []string) string {
	payload := map[string]interface{}{
		"kind":   "market_report",
		"swings": fluctuations,
	}

	offline := "Market volatility detected due to local disturbances."
	failed := "Market data link unstable."
	// Market refreshes are system-driven, so the budget charge goes to a
	// reserved id rather than any player.
	return c.generate("__market__", payload, offline, failed, failed)
}
