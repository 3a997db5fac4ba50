package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"ForecastLens/internal/model"
)

// HTTPPredictor implements Predictor against the JSON prediction endpoint.
type HTTPPredictor struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPPredictor creates a predictor with optional proxy support.
// A zero timeout leaves the request bounded only by ctx and the transport.
func NewHTTPPredictor(endpoint, proxyURL string, timeout time.Duration) *HTTPPredictor {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPPredictor{
		Endpoint: endpoint,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (p *HTTPPredictor) Name() string { return "http" }

type predictRequest struct {
	Ticker string `json:"ticker"`
}

// Predict issues exactly one POST for ticker and parses the payload.
func (p *HTTPPredictor) Predict(ctx context.Context, ticker model.TickerSymbol) (*model.Prediction, error) {
	body, err := json.Marshal(predictRequest{Ticker: strings.ToUpper(string(ticker))})
	if err != nil {
		return nil, model.NewError(model.KindTransportFailure, model.MsgPredictionFailed, fmt.Errorf("marshal request: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, model.NewError(model.KindTransportFailure, model.MsgPredictionFailed, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, model.NewError(model.KindTransportFailure, model.MsgPredictionFailed, fmt.Errorf("predict %s: %w", ticker, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewError(model.KindTransportFailure, model.MsgPredictionFailed, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, model.NewError(model.KindServiceFailure, serviceMessage(data),
			fmt.Errorf("predict %s: status %d", ticker, resp.StatusCode))
	}
	return decodePrediction(data)
}

// serviceMessage prefers the service's "error" field over the generic fallback.
func serviceMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return model.MsgPredictionFailed
	}
	if e := gjson.GetBytes(body, "error"); e.Type == gjson.String && strings.TrimSpace(e.Str) != "" {
		return e.Str
	}
	return model.MsgPredictionFailed
}

func decodePrediction(body []byte) (*model.Prediction, error) {
	if !gjson.ValidBytes(body) {
		return nil, model.NewError(model.KindMalformedResponse, model.MsgMalformedResponse, fmt.Errorf("body is not valid JSON"))
	}
	if !gjson.ParseBytes(body).IsObject() {
		return nil, model.NewError(model.KindMalformedResponse, model.MsgMalformedResponse, fmt.Errorf("body is not a JSON object"))
	}
	for _, field := range []string{"ohlc_data", "predicted_prices"} {
		if !gjson.GetBytes(body, field).IsArray() {
			return nil, model.NewError(model.KindMalformedResponse, model.MsgMalformedResponse, fmt.Errorf("missing array field %q", field))
		}
	}
	if err := checkNumbers(body); err != nil {
		return nil, model.NewError(model.KindMalformedResponse, model.MsgMalformedResponse, err)
	}
	var pred model.Prediction
	if err := json.Unmarshal(body, &pred); err != nil {
		return nil, model.NewError(model.KindMalformedResponse, model.MsgMalformedResponse, fmt.Errorf("decode prediction: %w", err))
	}
	return &pred, nil
}

var priceFields = []string{"Open", "High", "Low", "Close"}

// checkNumbers rejects bars without numeric prices and non-numeric forecast
// values, which json.Unmarshal would otherwise read as zero.
func checkNumbers(body []byte) error {
	var err error
	gjson.GetBytes(body, "ohlc_data").ForEach(func(key, bar gjson.Result) bool {
		if !bar.IsObject() {
			err = fmt.Errorf("ohlc_data[%d] is not an object", key.Int())
			return false
		}
		for _, f := range priceFields {
			if bar.Get(f).Type != gjson.Number {
				err = fmt.Errorf("ohlc_data[%d].%s is missing or not a number", key.Int(), f)
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}
	gjson.GetBytes(body, "predicted_prices").ForEach(func(key, v gjson.Result) bool {
		if v.Type != gjson.Number {
			err = fmt.Errorf("predicted_prices[%d] is not a number", key.Int())
			return false
		}
		return true
	})
	return err
}
