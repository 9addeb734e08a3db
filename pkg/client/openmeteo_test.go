package client

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/bobby-s-dev/route-weather/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTransport struct {
	body []byte
	err  error
	urls []string
}

func (f *fakeTransport) Get(ctx context.Context, u string) ([]byte, error) {
	f.urls = append(f.urls, u)
	return f.body, f.err
}

func TestOpenMeteoGeocode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		err     error
		wantLat float64
		wantLon float64
		wantErr error
	}{
		{
			name:    "first match wins",
			body:    `{"results":[{"name":"Paris","latitude":48.85341,"longitude":2.3488},{"name":"Paris","latitude":33.66094,"longitude":-95.55551}]}`,
			wantLat: 48.85341,
			wantLon: 2.3488,
		},
		{
			name:    "no results key",
			body:    `{"generationtime_ms":0.5}`,
			wantErr: models.ErrGeocodeNotFound,
		},
		{
			name:    "empty results",
			body:    `{"results":[]}`,
			wantErr: models.ErrGeocodeNotFound,
		},
		{
			name:    "malformed body",
			body:    `{"results":`,
			wantErr: models.ErrConnection,
		},
		{
			name:    "transport failure",
			err:     errors.Join(models.ErrConnection, errors.New("dial tcp: no such host")),
			wantErr: models.ErrConnection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &fakeTransport{body: []byte(tt.body), err: tt.err}
			c := NewOpenMeteoClient(transport, "", "", zap.NewNop())

			lat, lon, err := c.Geocode(context.Background(), "Paris")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLat, lat)
			assert.Equal(t, tt.wantLon, lon)
		})
	}
}

func TestOpenMeteoGeocodeQuery(t *testing.T) {
	transport := &fakeTransport{body: []byte(`{"results":[{"latitude":1,"longitude":2}]}`)}
	c := NewOpenMeteoClient(transport, "http://geo.test/v1/", "ru", zap.NewNop())

	_, _, err := c.Geocode(context.Background(), "Nizhny Novgorod")
	require.NoError(t, err)
	require.Len(t, transport.urls, 1)

	u, err := url.Parse(transport.urls[0])
	require.NoError(t, err)
	assert.Equal(t, "geo.test", u.Host)
	assert.Equal(t, "/v1/search", u.Path)
	assert.Equal(t, "Nizhny Novgorod", u.Query().Get("name"))
	assert.Equal(t, "1", u.Query().Get("count"))
	assert.Equal(t, "ru", u.Query().Get("language"))
	assert.Equal(t, "json", u.Query().Get("format"))
}
