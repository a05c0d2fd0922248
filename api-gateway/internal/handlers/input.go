package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Aakash694/EcoFinds/internal/query"
	"github.com/Aakash694/EcoFinds/internal/render"
	"github.com/Aakash694/EcoFinds/shared/models"
	"golang.org/x/sync/errgroup"
)

// maxUploadBytes caps the size of a sell form including its photos
const maxUploadBytes = 16 << 20

// photoTypes maps the accepted photo extensions to their MIME type
var photoTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// priceInput accepts a price sent either as a JSON number or a string.
// Any other token is kept verbatim and rejected by listing validation.
type priceInput string

func (p *priceInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*p = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = priceInput(s)
	default:
		*p = priceInput(data)
	}
	return nil
}

// createListingRequest is the JSON body of POST /api/v1/listings.
// Seller fields are accepted under both their short and long names.
type createListingRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       priceInput `json:"price"`
	Category    string     `json:"category"`
	Location    string     `json:"location"`
	Seller      string     `json:"seller"`
	SellerName  string     `json:"seller_name"`
	Phone       string     `json:"phone"`
	SellerPhone string     `json:"seller_phone"`
	Condition   string     `json:"condition"`
	Images      []string   `json:"images"`
}

func (req *createListingRequest) candidate() models.Candidate {
	return models.Candidate{
		Title:       req.Title,
		Description: req.Description,
		Price:       string(req.Price),
		Category:    req.Category,
		Location:    req.Location,
		Seller:      firstNonEmpty(req.SellerName, req.Seller),
		Phone:       firstNonEmpty(req.SellerPhone, req.Phone),
		Condition:   req.Condition,
		Images:      req.Images,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// rawParams reads query parameters from the URL. "search" is accepted as an
// alias of "q".
func rawParams(r *http.Request) query.RawParams {
	q := r.URL.Query()
	return query.RawParams{
		Category:   q.Get("category"),
		Location:   q.Get("location"),
		SearchTerm: firstNonEmpty(q.Get("q"), q.Get("search")),
		MinPrice:   q.Get("min_price"),
		MaxPrice:   q.Get("max_price"),
		SortBy:     q.Get("sort"),
	}
}

// formCandidate reads the text fields of a parsed sell form
func formCandidate(r *http.Request) models.Candidate {
	return models.Candidate{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
		Category:    r.FormValue("category"),
		Location:    r.FormValue("location"),
		Seller:      firstNonEmpty(r.FormValue("seller"), r.FormValue("seller_name")),
		Phone:       firstNonEmpty(r.FormValue("phone"), r.FormValue("seller_phone")),
		Condition:   r.FormValue("condition"),
	}
}

// readPhotos turns uploaded files into inline data references, in upload order.
// Files with an unsupported extension are skipped and at most render.MaxPhotos
// photos are read. Files are read concurrently.
func readPhotos(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	type photo struct {
		header   *multipart.FileHeader
		mimeType string
	}

	var accepted []photo
	for _, fh := range files {
		mimeType, ok := photoTypes[strings.ToLower(filepath.Ext(fh.Filename))]
		if !ok {
			continue
		}
		accepted = append(accepted, photo{header: fh, mimeType: mimeType})
		if len(accepted) == render.MaxPhotos {
			break
		}
	}

	refs := make([]string, len(accepted))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range accepted {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ref, err := dataURL(p.header, p.mimeType)
			if err != nil {
				return err
			}
			refs[i] = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return refs, nil
}

func dataURL(fh *multipart.FileHeader, mimeType string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open photo %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read photo %s: %w", fh.Filename, err)
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
