package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/slunch-api/internal/models"
	"github.com/slunch-api/internal/repository"
)

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// exportedComment is the admin view of a comment, client id and ip included
type exportedComment struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Comment   string     `json:"comment"`
	ClientID  string     `json:"uuid"`
	IP        string     `json:"ip"`
	Date      time.Time  `json:"date"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toExported(c *models.Comment) exportedComment {
	return exportedComment{
		ID:        c.ID,
		Username:  c.Username,
		Comment:   c.Text,
		ClientID:  c.ClientID,
		IP:        c.SourceIP,
		Date:      c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// StreamComments streams all comments in the specified format
func (s *exportService) StreamComments(ctx context.Context, w http.ResponseWriter, format string) error {
	s.log.Info().Str("format", format).Msg("Starting comments export")

	switch format {
	case "ndjson":
		return s.streamCommentsNDJSON(ctx, w)
	case "json":
		return s.streamCommentsJSON(ctx, w)
	case "csv":
		return s.streamCommentsCSV(ctx, w)
	default:
		return newError(KindInvalidArgument, fmt.Sprintf("unsupported format: %s", format))
	}
}

func (s *exportService) streamCommentsNDJSON(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename=comments.ndjson")

	flusher, _ := w.(http.Flusher)
	count := 0

	err := s.repos.Comment.StreamAll(ctx, func(comment *models.Comment) error {
		data, err := json.Marshal(toExported(comment))
		if err != nil {
			return err
		}
		w.Write(data)
		w.Write([]byte("\n"))
		count++

		// Flush every 100 records for streaming
		if count%100 == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	s.log.Info().Int("count", count).Msg("Comments export completed")
	return err
}

func (s *exportService) streamCommentsJSON(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=comments.json")

	w.Write([]byte("["))
	first := true

	err := s.repos.Comment.StreamAll(ctx, func(comment *models.Comment) error {
		if !first {
			w.Write([]byte(","))
		}
		first = false

		data, err := json.Marshal(toExported(comment))
		if err != nil {
			return err
		}
		w.Write(data)
		return nil
	})

	w.Write([]byte("]"))
	return err
}

func (s *exportService) streamCommentsCSV(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=comments.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"id", "username", "comment", "uuid", "ip", "date"})

	return s.repos.Comment.StreamAll(ctx, func(c *models.Comment) error {
		return writer.Write([]string{
			c.ID,
			c.Username,
			c.Text,
			c.ClientID,
			c.SourceIP,
			c.CreatedAt.Format(time.RFC3339),
		})
	})
}

// GetCount returns count for a resource
func (s *exportService) GetCount(ctx context.Context, resource string) (int, error) {
	switch resource {
	case "comments":
		return s.repos.Comment.Count(ctx)
	case "bans":
		return s.repos.Ban.Count(ctx)
	case "subscribers":
		return s.repos.Subscriber.Count(ctx)
	default:
		return 0, fmt.Errorf("unknown resource: %s", resource)
	}
}
