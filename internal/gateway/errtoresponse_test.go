package gateway

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fireorder/gateway/internal/apierr"
	"github.com/fireorder/gateway/internal/protocol"
)

func TestErrToResponseStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		err      error
		wantResp protocol.Response
	}{
		{"bad request", apierr.New(apierr.BadRequest, "bad"), protocol.BadRequestResponse("bad")},
		{"serde", apierr.New(apierr.Serde, "bad serde"), protocol.BadRequestResponse("bad serde")},
		{"not enough funds", apierr.New(apierr.NotEnoughFunds, "broke"), protocol.BadRequestResponse("broke")},
		{"unauthorized", apierr.New(apierr.Unauthorized, "no"), protocol.UnauthorizedResponse()},
		{"not found", apierr.New(apierr.NotFound, "gone"), protocol.NotFoundResponse()},
		{"database", apierr.New(apierr.Database, "oops"), protocol.InternalErrorResponse("oops")},
		{"cache", apierr.New(apierr.Cache, "oops"), protocol.InternalErrorResponse("oops")},
		{"unwrapped error", errors.New("boom"), protocol.InternalErrorResponse("boom")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := errToResponse(tc.err).Bytes()
			want := tc.wantResp.Bytes()
			if !bytes.Equal(got, want) {
				t.Errorf("errToResponse(%v) = %q, want %q", tc.err, got, want)
			}
		})
	}
}
