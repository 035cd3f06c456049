package bible

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bibletext/dailyverse/internal/models"
)

// DefaultBaseURL is the public bible-api.com endpoint.
const DefaultBaseURL = "https://bible-api.com"

// translations maps our version codes onto bible-api.com translation ids.
// Versions the API does not carry fall back to the World English Bible.
var translations = map[string]string{
	"ESV":    "web",
	"NIV":    "web",
	"KJV":    "kjv",
	"NLT":    "web",
	"RVR":    "rvr1960",
	"DELUT":  "lutherbibel1912",
	"LSG":    "ls1910",
	"DUTSVV": "statenvertaling",
	"CUVS":   "cuv",
}

// books maps OSIS book codes onto bible-api.com book names.
var books = map[string]string{
	"GEN": "genesis", "EXO": "exodus", "LEV": "leviticus", "NUM": "numbers",
	"DEU": "deuteronomy", "JOS": "joshua", "JDG": "judges", "RUT": "ruth",
	"1SA": "1samuel", "2SA": "2samuel", "1KI": "1kings", "2KI": "2kings",
	"1CH": "1chronicles", "2CH": "2chronicles", "EZR": "ezra", "NEH": "nehemiah",
	"EST": "esther", "JOB": "job", "PSA": "psalms", "PRO": "proverbs",
	"ECC": "ecclesiastes", "SNG": "songofsolomon", "ISA": "isaiah", "JER": "jeremiah",
	"LAM": "lamentations", "EZK": "ezekiel", "DAN": "daniel", "HOS": "hosea",
	"JOL": "joel", "AMO": "amos", "OBA": "obadiah", "JON": "jonah",
	"MIC": "micah", "NAH": "nahum", "HAB": "habakkuk", "ZEP": "zephaniah",
	"HAG": "haggai", "ZEC": "zechariah", "MAL": "malachi",
	"MAT": "matthew", "MRK": "mark", "LUK": "luke", "JHN": "john",
	"ACT": "acts", "ROM": "romans", "1CO": "1corinthians", "2CO": "2corinthians",
	"GAL": "galatians", "EPH": "ephesians", "PHP": "philippians", "COL": "colossians",
	"1TH": "1thessalonians", "2TH": "2thessalonians", "1TI": "1timothy", "2TI": "2timothy",
	"TIT": "titus", "PHM": "philemon", "HEB": "hebrews", "JAM": "james",
	"1PE": "1peter", "2PE": "2peter", "1JN": "1john", "2JN": "2john",
	"3JN": "3john", "JUD": "jude", "REV": "revelation",
}

// Client fetches verses from bible-api.com.
type Client struct {
	baseURL string
	http    *http.Client
}

// Config holds the configuration for the verse client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new verse client with the provided configuration.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// apiResponse is the subset of the bible-api.com payload we use.
type apiResponse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// FetchVerse fetches one verse by OSIS reference (e.g. "JHN.3.16") in the
// given version.
func (c *Client) FetchVerse(ctx context.Context, reference, version string) (*models.Verse, error) {
	apiRef, err := apiReference(reference)
	if err != nil {
		return nil, err
	}

	translation, ok := translations[version]
	if !ok {
		translation = "web"
	}

	reqURL := fmt.Sprintf("%s/%s?translation=%s", c.baseURL, apiRef, url.QueryEscape(translation))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build verse request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch verse: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch verse: unexpected status %d", resp.StatusCode)
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode verse response: %w", err)
	}

	verse := &models.Verse{
		Reference: data.Reference,
		Text:      strings.TrimSpace(data.Text),
		Version:   version,
	}
	if verse.Reference == "" {
		verse.Reference = reference
	}
	if verse.Text == "" {
		return nil, fmt.Errorf("fetch verse: empty text for %s", reference)
	}

	return verse, nil
}

// RandomVerse fetches a random verse from the pool in the given version.
func (c *Client) RandomVerse(ctx context.Context, version string) (*models.Verse, error) {
	return c.FetchVerse(ctx, RandomReference(), version)
}

// apiReference converts an OSIS reference like "JHN.3.16" or "PSA.23.1-6"
// into the bible-api.com path form "john+3:16".
func apiReference(reference string) (string, error) {
	parts := strings.Split(reference, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid verse reference: %q", reference)
	}

	book, ok := books[parts[0]]
	if !ok {
		book = strings.ToLower(parts[0])
	}

	return fmt.Sprintf("%s+%s:%s", book, parts[1], parts[2]), nil
}
