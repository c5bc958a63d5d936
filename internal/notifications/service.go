// Package notifications is the client side of the panel's notification widget.
package notifications

import (
	"context"
	"fmt"

	"panelkit/internal/client"
	"panelkit/internal/domain/notification"
)

// ListPath is the notification collection endpoint.
const ListPath = "/api/panel/notifications/"

// Service talks to the notification endpoints.
type Service struct {
	http    *client.HTTPClient
	pages   *client.PageFetcher[notification.Notification]
	csrf    client.TokenSource
	header  string
	listURL string
}

// NewService builds a service; csrf supplies the token sent on POSTs.
func NewService(c *client.HTTPClient, csrf client.TokenSource, csrfHeader string) *Service {
	return &Service{
		http:    c,
		pages:   client.NewPageFetcher[notification.Notification](c, nil),
		csrf:    csrf,
		header:  csrfHeader,
		listURL: ListPath,
	}
}

// List fetches one page; an empty url fetches the first page.
func (s *Service) List(ctx context.Context, url string) (*client.Page[notification.Notification], error) {
	if url == "" {
		url = s.listURL
	}
	return s.pages.FetchPage(ctx, url)
}

// SetRead marks one notification as read.
func (s *Service) SetRead(ctx context.Context, id int64) error {
	return s.post(ctx, fmt.Sprintf("%s%d/set-read/", ListPath, id))
}

// SetAllRead marks every notification of the current recipient as read.
func (s *Service) SetAllRead(ctx context.Context) error {
	return s.post(ctx, ListPath+"set-all-read/")
}

func (s *Service) post(ctx context.Context, endpoint string) error {
	resp, err := s.http.Post(ctx, endpoint, nil, client.CSRFHeaders(s.header, s.csrf))
	if err != nil {
		return client.AsAPIError(err)
	}
	return resp.Err()
}
