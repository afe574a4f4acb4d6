package classifier

import (
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
)

func testGrid() *entity.PixelGrid {
	pix := make([]uint8, 32*32*3)
	for i := range pix {
		pix[i] = uint8(i % 200)
	}
	return &entity.PixelGrid{Width: 32, Height: 32, Channels: 3, Pix: pix}
}

func TestRemote_Probability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "image/png", r.Header.Get("Content-Type"))

		// Вход приведён к размеру модели.
		img, err := png.Decode(r.Body)
		require.NoError(t, err)
		require.Equal(t, 224, img.Bounds().Dx())
		require.Equal(t, 224, img.Bounds().Dy())

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"probability": 0.73}`))
	}))
	defer srv.Close()

	c := NewRemote(srv.URL, 224)
	p, err := c.Probability(context.Background(), testGrid())
	require.NoError(t, err)
	require.InDelta(t, 0.73, p, 1e-9)
}

func TestRemote_Probability_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewRemote(srv.URL, 224)
	_, err := c.Probability(context.Background(), testGrid())
	require.ErrorIs(t, err, port.ErrClassifier)
}

func TestRemote_Probability_OutOfRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"probability": 1.7}`))
	}))
	defer srv.Close()

	c := NewRemote(srv.URL, 224)
	_, err := c.Probability(context.Background(), testGrid())
	require.ErrorIs(t, err, port.ErrClassifier)
}

func TestStatic_Probability(t *testing.T) {
	s := &Static{P: 0.42}
	p, err := s.Probability(context.Background(), testGrid())
	require.NoError(t, err)
	require.Equal(t, 0.42, p)
}
