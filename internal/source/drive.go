package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"dailyoperacional/internal/dataset"
)

const (
	driveAPI   = "https://www.googleapis.com/drive/v3/"
	driveScope = "https://www.googleapis.com/auth/drive.readonly"
)

// DriveEvents reads every JSON document of a Drive folder.
type DriveEvents struct {
	FolderID string
	// CredentialsEnv names the environment variable holding the service
	// account JSON.
	CredentialsEnv string
	// BaseURL and Client override the API host and the authorized client.
	BaseURL string
	Client  *http.Client
}

type driveFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type driveList struct {
	Files         []driveFile `json:"files"`
	NextPageToken string      `json:"nextPageToken"`
}

func (d DriveEvents) Name() string { return "drive" }

func (d DriveEvents) client(ctx context.Context) (*http.Client, error) {
	if d.Client != nil {
		return d.Client, nil
	}
	raw := os.Getenv(d.CredentialsEnv)
	if raw == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrMissingCredentials, d.CredentialsEnv)
	}
	creds, err := google.CredentialsFromJSON(ctx, []byte(raw), driveScope)
	if err != nil {
		return nil, fmt.Errorf("source: drive credentials: %w", err)
	}
	return oauth2.NewClient(ctx, creds.TokenSource), nil
}

func (d DriveEvents) base() string {
	if d.BaseURL != "" {
		return d.BaseURL
	}
	return driveAPI
}

func (d DriveEvents) LoadEvents(ctx context.Context) ([]dataset.Event, error) {
	client, err := d.client(ctx)
	if err != nil {
		return nil, err
	}
	files, err := d.list(ctx, client)
	if err != nil {
		return nil, err
	}

	var out []dataset.Event
	for _, f := range files {
		b, err := fetch(ctx, client, d.base()+"files/"+url.PathEscape(f.ID)+"?alt=media")
		if err != nil {
			return nil, fmt.Errorf("drive file %s: %w", f.Name, err)
		}
		events, err := decodeDocument(b)
		if err != nil {
			return nil, fmt.Errorf("drive file %s: %w", f.Name, err)
		}
		out = append(out, events...)
	}
	if len(out) == 0 {
		return nil, ErrEmptySource
	}
	return out, nil
}

func (d DriveEvents) list(ctx context.Context, client *http.Client) ([]driveFile, error) {
	var (
		files []driveFile
		token string
	)
	for {
		q := url.Values{}
		q.Set("q", fmt.Sprintf("'%s' in parents and mimeType='application/json' and trashed=false", quoteQuery(d.FolderID)))
		q.Set("fields", "nextPageToken,files(id,name)")
		q.Set("orderBy", "name")
		q.Set("pageSize", "1000")
		if token != "" {
			q.Set("pageToken", token)
		}
		b, err := fetch(ctx, client, d.base()+"files?"+q.Encode())
		if err != nil {
			return nil, fmt.Errorf("drive list: %w", err)
		}
		var page driveList
		if err := json.Unmarshal(b, &page); err != nil {
			return nil, fmt.Errorf("drive list: decode: %w", err)
		}
		files = append(files, page.Files...)
		if page.NextPageToken == "" {
			return files, nil
		}
		token = page.NextPageToken
	}
}

// quoteQuery escapes a value placed inside single quotes of a Drive query.
func quoteQuery(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, "'", `\'`)
}
