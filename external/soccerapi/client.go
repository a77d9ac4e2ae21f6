package soccerapi

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-predictor/external/provider"
	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
	"github.com/riskibarqy/match-predictor/internal/domain/matchcontext"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

const (
	providerName          = "soccer_api"
	defaultBaseURL        = "https://soccer.entitysport.com"
	defaultTimeout        = 10 * time.Second
	maxBodyBytes          = 6 << 20
	recentMatchesPerPage  = 7
	statsPerPage          = 20
	statsPage             = 2
	squadPerPage          = 50
	activeFixturesPerPage = 50
)

var tokenParamRegex = regexp.MustCompile(`token=[^&\s"']+`)
var errSoccerAPITransient = crerr.New("soccer api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads fixture, competition and player data from the soccer provider.
// It does not retry; every failure is returned as a *provider.FetchError.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight[[]byte]
}

var _ usecase.SoccerDataProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(providerName, breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchMatchInfo(ctx context.Context, matchID string) (usecase.ExternalMatchInfo, error) {
	const op = "match_info"
	if err := requireID(op, matchID); err != nil {
		return usecase.ExternalMatchInfo{}, err
	}

	var payload itemsResponse[matchInfoItems]
	if err := c.doJSON(ctx, op, "/matches/"+url.PathEscape(matchID)+"/info", nil, &payload); err != nil {
		return usecase.ExternalMatchInfo{}, err
	}
	if len(payload.Items.MatchInfo) == 0 {
		return usecase.ExternalMatchInfo{}, provider.NewFetchError(providerName, op, provider.ErrNotFound, fmt.Errorf("match_id=%s has no match_info", matchID))
	}

	info := mapMatchInfo(payload.Items)
	if info.HomeTeamID == "" || info.AwayTeamID == "" || info.CompetitionID == "" {
		return usecase.ExternalMatchInfo{}, provider.NewFetchError(providerName, op, provider.ErrMalformed, fmt.Errorf("match_id=%s is missing team or competition ids", matchID))
	}
	return info, nil
}

func (c *Client) FetchCompetition(ctx context.Context, competitionID string) (usecase.ExternalCompetition, error) {
	const op = "competition"
	if err := requireID(op, competitionID); err != nil {
		return usecase.ExternalCompetition{}, err
	}

	var payload itemsResponse[[]competitionRecord]
	if err := c.doJSON(ctx, op, "/competition/"+url.PathEscape(competitionID), nil, &payload); err != nil {
		return usecase.ExternalCompetition{}, err
	}
	if len(payload.Items) == 0 {
		return usecase.ExternalCompetition{}, provider.NewFetchError(providerName, op, provider.ErrNotFound, fmt.Errorf("competition_id=%s has no items", competitionID))
	}
	return mapCompetition(payload.Items[0]), nil
}

func (c *Client) FetchCompetitionStats(ctx context.Context, competitionID string) ([]matchcontext.PlayerStatLine, error) {
	const op = "competition_stats"
	if err := requireID(op, competitionID); err != nil {
		return nil, err
	}

	query := map[string]string{
		"per_page": strconv.Itoa(statsPerPage),
		"paged":    strconv.Itoa(statsPage),
	}
	var payload itemsResponse[[]statLine]
	if err := c.doJSON(ctx, op, "/competition/"+url.PathEscape(competitionID)+"/statsv2", query, &payload); err != nil {
		return nil, err
	}

	out := make([]matchcontext.PlayerStatLine, 0, len(payload.Items))
	for _, item := range payload.Items {
		out = append(out, mapStatLine(item))
	}
	return out, nil
}

func (c *Client) FetchCompetitionSquad(ctx context.Context, competitionID string) ([]usecase.ExternalSquadTeam, error) {
	const op = "competition_squad"
	if err := requireID(op, competitionID); err != nil {
		return nil, err
	}

	query := map[string]string{
		"per_page": strconv.Itoa(squadPerPage),
		"paged":    "1",
	}
	var payload squadResponse
	if err := c.doJSON(ctx, op, "/competition/"+url.PathEscape(competitionID)+"/squad", query, &payload); err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalSquadTeam, 0, len(payload.Teams))
	for _, team := range payload.Teams {
		out = append(out, mapSquadTeam(team))
	}
	return out, nil
}

func (c *Client) FetchPresquad(ctx context.Context, matchID string) (usecase.ExternalPresquad, error) {
	const op = "presquad"
	if err := requireID(op, matchID); err != nil {
		return usecase.ExternalPresquad{}, err
	}

	query := map[string]string{"fantasy": "new2point"}
	var payload itemsResponse[presquadItems]
	if err := c.doJSON(ctx, op, "/matches/"+url.PathEscape(matchID)+"/newfantasy", query, &payload); err != nil {
		return usecase.ExternalPresquad{}, err
	}
	return mapPresquad(payload.Items), nil
}

func (c *Client) FetchTeamRecentMatches(ctx context.Context, teamID string) ([]usecase.ExternalTeamMatch, error) {
	const op = "team_matches"
	if err := requireID(op, teamID); err != nil {
		return nil, err
	}

	query := map[string]string{
		"status":   "2",
		"per_page": strconv.Itoa(recentMatchesPerPage),
		"paged":    "1",
	}
	var payload itemsResponse[[]matchRecord]
	if err := c.doJSON(ctx, op, "/team/"+url.PathEscape(teamID)+"/matches", query, &payload); err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalTeamMatch, 0, len(payload.Items))
	for _, item := range payload.Items {
		out = append(out, mapTeamMatch(item))
	}
	return out, nil
}

func (c *Client) FetchPlayerProfile(ctx context.Context, playerID string) (matchcontext.PlayerProfile, error) {
	const op = "player_profile"
	if err := requireID(op, playerID); err != nil {
		return matchcontext.PlayerProfile{}, err
	}

	var payload itemsResponse[playerProfileItem]
	if err := c.doJSON(ctx, op, "/player/"+url.PathEscape(playerID)+"/profile", nil, &payload); err != nil {
		return matchcontext.PlayerProfile{}, err
	}
	return mapPlayerProfile(playerID, payload.Items), nil
}

// FetchActiveFixtures lists upcoming matches that already carry a pre-match squad.
func (c *Client) FetchActiveFixtures(ctx context.Context) ([]fixture.Entry, error) {
	const op = "active_fixtures"

	query := map[string]string{
		"status":    "1",
		"per_page":  strconv.Itoa(activeFixturesPerPage),
		"pre_squad": "true",
	}
	var payload itemsResponse[[]matchRecord]
	if err := c.doJSON(ctx, op, "/matches", query, &payload); err != nil {
		return nil, err
	}

	out := make([]fixture.Entry, 0, len(payload.Items))
	for _, item := range payload.Items {
		entry := mapFixtureEntry(item)
		if entry.MatchID == "" {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, op, path string, query map[string]string, target any) error {
	if err := ctx.Err(); err != nil {
		return provider.NewFetchError(providerName, op, nil, err)
	}
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "soccer api circuit breaker rejected request", "op", op, "state", c.breaker.State())
			return provider.NewFetchError(providerName, op, provider.ErrUnavailable, err)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("token", c.token)
	fullURL := c.baseURL + path + "?" + values.Encode()

	raw, err, _ := c.flight.Do(ctx, path+"?"+values.Encode(), func(ctx context.Context) ([]byte, error) {
		body, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return body, reqErr
	})
	if err != nil {
		return provider.NewFetchError(providerName, op, nil, err)
	}

	var env envelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return provider.NewFetchError(providerName, op, provider.ErrMalformed, fmt.Errorf("decode envelope: %w", err))
	}
	if !strings.EqualFold(strings.TrimSpace(env.Status), "ok") {
		return provider.NewFetchError(providerName, op, provider.ErrNotFound, fmt.Errorf("provider status=%q body=%s", env.Status, abbreviateBody(env.Response)))
	}
	trimmed := bytes.TrimSpace(env.Response)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return provider.NewFetchError(providerName, op, provider.ErrNotFound, fmt.Errorf("empty response"))
	}
	if err := sonic.Unmarshal(trimmed, target); err != nil {
		return provider.NewFetchError(providerName, op, provider.ErrMalformed, fmt.Errorf("decode provider payload: %w", err))
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if stderrors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("send request: %w", err)
		}
		reqErr := fmt.Errorf("%w: %w: send request: %s", errSoccerAPITransient, provider.Classify(err), sanitizeSensitiveText(err.Error(), c.token))
		c.logger.WarnContext(ctx, "soccer api request failed", "url", redactAPIURL(fullURL), "error", reqErr)
		return nil, reqErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w: read response body: %v", errSoccerAPITransient, provider.Classify(err), err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	kind := provider.KindForStatus(resp.StatusCode)
	var reqErr error
	if isRetryableStatus(resp.StatusCode) {
		reqErr = fmt.Errorf("%w: %w: provider status=%d body=%s", errSoccerAPITransient, kind, resp.StatusCode, abbreviateBody(raw))
	} else {
		reqErr = fmt.Errorf("%w: provider status=%d body=%s", kind, resp.StatusCode, abbreviateBody(raw))
	}
	c.logger.WarnContext(ctx, "soccer api request failed", "url", redactAPIURL(fullURL), "status", resp.StatusCode, "error", reqErr)
	return nil, reqErr
}

func requireID(op, id string) error {
	if strings.TrimSpace(id) == "" {
		return provider.NewFetchError(providerName, op, provider.ErrNotFound, fmt.Errorf("empty id"))
	}
	return nil
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return tokenParamRegex.ReplaceAllString(value, "token=REDACTED")
}

func isCircuitFailure(err error) bool {
	if err == nil || stderrors.Is(err, context.Canceled) {
		return false
	}
	return stderrors.Is(err, errSoccerAPITransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("token") {
		query.Set("token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
