package baaskit

import (
	"context"
	"net/http"
	"net/url"
)

// RecipientService binds the recipient registration endpoint. Obtain one
// from [Client.Recipients].
type RecipientService struct {
	client *Client
}

// Register adds a contact to the project.
//
// The phone number is normalised with [FormatPhone] and must then satisfy
// [ValidatePhone]; otherwise an [*InputError] is returned and no request is
// sent. The project identifier is resolved first, so a missing project
// yields a [*ConfigurationError] before any network traffic too.
func (s *RecipientService) Register(ctx context.Context, req RecipientRequest) (*RecipientRecord, error) {
	req.Phone = FormatPhone(req.Phone)
	if !ValidatePhone(req.Phone) {
		return nil, &InputError{Detail: []ValidationDetail{{
			Field:  "phone",
			Reason: "must be in 010-XXXX-XXXX format",
		}}}
	}

	project, err := s.client.Project()
	if err != nil {
		return nil, err
	}

	rec, err := invoke[*RecipientRecord](ctx, s.client, call{
		method: http.MethodPost,
		path:   "/recipient/" + url.PathEscape(project.ProjectID),
		body:   req,
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
