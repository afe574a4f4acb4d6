package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"time"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
	"surface-inspector/internal/infrastructure/vision"
)

// Remote вызывает внешний сервис модели по HTTP. Снимок приводится к
// входному размеру модели, отправляется как PNG; в ответе ожидается
// JSON с полем probability в [0,1].
type Remote struct {
	url       string
	inputSize int
	client    *http.Client
}

// NewRemote создаёт клиента внешней модели.
func NewRemote(url string, inputSize int) *Remote {
	if inputSize <= 0 {
		inputSize = 224
	}
	return &Remote{
		url:       url,
		inputSize: inputSize,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Probability возвращает вероятность от внешней модели.
func (r *Remote) Probability(ctx context.Context, grid *entity.PixelGrid) (float64, error) {
	resized := vision.Resize(grid, r.inputSize, r.inputSize)

	var buf bytes.Buffer
	if err := png.Encode(&buf, vision.ToImage(resized)); err != nil {
		return 0, fmt.Errorf("%w: encode input: %v", port.ErrClassifier, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, &buf)
	if err != nil {
		return 0, fmt.Errorf("%w: build request: %v", port.ErrClassifier, err)
	}
	req.Header.Set("Content-Type", "image/png")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", port.ErrClassifier, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: unexpected status %d", port.ErrClassifier, resp.StatusCode)
	}

	var out struct {
		Probability float64 `json:"probability"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", port.ErrClassifier, err)
	}
	if out.Probability < 0 || out.Probability > 1 {
		return 0, fmt.Errorf("%w: probability %v out of range", port.ErrClassifier, out.Probability)
	}
	return out.Probability, nil
}

// Проверка реализации интерфейса
var _ port.Classifier = (*Remote)(nil)
