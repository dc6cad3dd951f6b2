// Package extract turns an uploaded receipt file into staged draft
// expenses via the backend's photo-extraction endpoint.
//
// The extraction response shape is not contractually fixed anywhere, so
// normalization is deliberately defensive: a bare list, an object with
// an "expenses" list, an object with a "data" list and a single object
// are all accepted, checked in that order.
package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"outlai/internal/core"
	"outlai/internal/log"
)

const descriptionPlaceholder = "Despesa extraída"

// PhotoExtractor is the one backend operation the adapter needs.
type PhotoExtractor interface {
	ExtractFromPhoto(ctx context.Context, uri string) (json.RawMessage, error)
}

// Adapter converts receipt files into draft expenses.
type Adapter struct {
	extractor PhotoExtractor
	logger    *log.Logger
	now       func() time.Time
}

func NewAdapter(extractor PhotoExtractor, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentExtract)
	}
	return &Adapter{
		extractor: extractor,
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessReceipt encodes the file as a data URI, submits it for
// extraction and normalizes the response into drafts. Transport and
// request failures propagate unchanged; there are no partial results.
func (a *Adapter) ProcessReceipt(ctx context.Context, filename string, content []byte) ([]core.DraftExpense, error) {
	uri := EncodeDataURI(filename, content)

	raw, err := a.extractor.ExtractFromPhoto(ctx, uri)
	if err != nil {
		a.logger.ErrorContext(ctx, "Receipt extraction failed",
			log.FieldOperation, log.OpExtract,
			log.FieldError, err.Error())
		return nil, err
	}

	items, err := normalizeResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize extraction response: %w", err)
	}

	drafts := make([]core.DraftExpense, 0, len(items))
	for _, item := range items {
		drafts = append(drafts, a.coerceItem(item))
	}

	a.logger.InfoContext(ctx, "Receipt processed",
		log.FieldOperation, log.OpExtract,
		log.FieldDraftCount, len(drafts))
	return drafts, nil
}

// EncodeDataURI encodes file content as a base64 data URI. The MIME
// type is sniffed from the content, falling back to the extension for
// formats the sniffer does not know.
func EncodeDataURI(filename string, content []byte) string {
	mime := http.DetectContentType(content)
	if mime == "application/octet-stream" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".heic":
			mime = "image/heic"
		case ".pdf":
			mime = "application/pdf"
		}
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(content)
}

// normalizeResponse flattens the four accepted response shapes into a
// list of raw items. Order matters: bare list, then the "expenses"
// field, then the "data" field, then single object.
func normalizeResponse(raw json.RawMessage) ([]map[string]any, error) {
	var asList []map[string]any
	if err := json.Unmarshal(raw, &asList); err == nil {
		return asList, nil
	}

	var asObject map[string]any
	if err := json.Unmarshal(raw, &asObject); err != nil {
		return nil, fmt.Errorf("unexpected response shape: %w", err)
	}

	if items, ok := listField(asObject, "expenses"); ok {
		return items, nil
	}
	if items, ok := listField(asObject, "data"); ok {
		return items, nil
	}
	return []map[string]any{asObject}, nil
}

func listField(obj map[string]any, key string) ([]map[string]any, bool) {
	list, ok := obj[key].([]any)
	if !ok {
		return nil, false
	}
	items := make([]map[string]any, 0, len(list))
	for _, v := range list {
		if m, ok := v.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items, true
}

// coerceItem maps one raw extracted item onto a draft, defaulting every
// field the extractor left out or mangled.
func (a *Adapter) coerceItem(item map[string]any) core.DraftExpense {
	description, _ := item["description"].(string)
	if strings.TrimSpace(description) == "" {
		description = descriptionPlaceholder
	}

	category, _ := item["category"].(string)

	date, _ := item["date"].(string)
	if date == "" {
		date = a.now().UTC().Format(time.RFC3339)
	}

	return core.DraftExpense{
		TempID:      uuid.New().String(),
		Description: description,
		Amount:      core.CoerceAmount(item["amount"]),
		Category:    core.CanonicalCategory(category),
		Date:        date,
	}
}
