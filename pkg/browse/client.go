// Package browse is the client-side navigation model behind the public
// site: session handling, category browsing, portfolio filtering and
// the folder-style grouping of dated items.
package browse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

type Subcategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ContentItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MediaURL    string `json:"imageUrl"`
}

type ClientRecord struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
}

type PortfolioCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PortfolioItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FileURL     string    `json:"file_url"`
	UploadDate  time.Time `json:"upload_date"`
	ClientID    string    `json:"client_id"`
	CategoryID  string    `json:"category_id"`
}

// APIError is any non-success response from the backend. Detail carries
// the server's human-readable message when one was sent.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}

// Client talks to the content API. The zero http.Client is replaced
// with one holding a cookie jar so login cookies survive across calls.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{Timeout: 15 * time.Second, Jar: jar}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) Subcategories(ctx context.Context, category string) ([]Subcategory, error) {
	var out []Subcategory
	err := c.getJSON(ctx, "/api/content/"+url.PathEscape(category)+"/subcategories", nil, &out)
	return out, err
}

func (c *Client) Items(ctx context.Context, category, subcategoryID, query string) ([]ContentItem, error) {
	values := url.Values{}
	if query != "" {
		values.Set("q", query)
	}
	var out []ContentItem
	err := c.getJSON(ctx, "/api/content/"+url.PathEscape(category)+"/"+url.PathEscape(subcategoryID), values, &out)
	return out, err
}

func (c *Client) Clients(ctx context.Context) ([]ClientRecord, error) {
	var out []ClientRecord
	err := c.getJSON(ctx, "/api/clients", nil, &out)
	return out, err
}

func (c *Client) PortfolioCategories(ctx context.Context) ([]PortfolioCategory, error) {
	var out []PortfolioCategory
	err := c.getJSON(ctx, "/api/content/portfolio/subcategories", nil, &out)
	return out, err
}

func (c *Client) PortfolioItems(ctx context.Context, filter Filter) ([]PortfolioItem, error) {
	var out []PortfolioItem
	err := c.getJSON(ctx, "/api/portfolio/items", filter.Values(), &out)
	return out, err
}

type loginResponse struct {
	Status string `json:"status"`
	User   Actor  `json:"user"`
}

func (c *Client) Login(ctx context.Context, username, password string) (Actor, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return Actor{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/login", bytes.NewReader(body))
	if err != nil {
		return Actor{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Actor{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Actor{}, apiError(resp)
	}

	var decoded loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Actor{}, err
	}
	return decoded.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/logout", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, values url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(values) > 0 {
		endpoint += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			apiErr.Detail = payload.Detail
		} else {
			apiErr.Detail = payload.Error
		}
	}
	return apiErr
}
