// Package pix формирует инструкции оплаты Pix и получает изображение QR-кода
// у внешнего генератора. Полезная нагрузка условная и не соответствует формату
// платёжной сети: QR нужен только для отображения.
package pix

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultMerchant задаёт имя получателя в полезной нагрузке.
const DefaultMerchant = "Levenuts"

const maxImageSize = 1 << 20

// Instructions содержит данные для оплаты заказа через Pix.
type Instructions struct {
	OrderID string  `json:"orderId"`
	Key     string  `json:"key"`
	Amount  float64 `json:"amount"`
	Payload string  `json:"payload"`
	QRURL   string  `json:"qrUrl"`
}

// Payload строит строку для QR-кода.
func Payload(key string, amount float64, merchant string) string {
	return "PAY:" + key + "|AMT:" + strconv.FormatFloat(amount, 'f', 2, 64) + "|MSG:" + merchant
}

// Client обращается к генератору QR-кодов.
type Client struct {
	baseURL    string
	key        string
	httpClient *http.Client
}

// NewClient создаёт клиент генератора QR-кодов по указанному адресу и ключу Pix магазина.
func NewClient(baseURL, key string) *Client {
	base := strings.TrimRight(baseURL, "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}

	return &Client{
		baseURL: base,
		key:     key,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// QRCodeURL возвращает адрес изображения QR-кода для полезной нагрузки.
func (c *Client) QRCodeURL(payload string) string {
	return fmt.Sprintf("%s/v1/create-qr-code/?size=240x240&data=%s", c.baseURL, url.QueryEscape(payload))
}

// Instructions собирает инструкции оплаты для заказа на указанную сумму.
func (c *Client) Instructions(orderID string, amount float64) Instructions {
	payload := Payload(c.key, amount, DefaultMerchant)
	return Instructions{
		OrderID: orderID,
		Key:     c.key,
		Amount:  amount,
		Payload: payload,
		QRURL:   c.QRCodeURL(payload),
	}
}

// FetchQRCode загружает изображение QR-кода и возвращает его содержимое и тип.
func (c *Client) FetchQRCode(ctx context.Context, payload string) ([]byte, string, error) {
	if c == nil || c.baseURL == "" {
		return nil, "", fmt.Errorf("qr client not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.QRCodeURL(payload), nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}

	return body, contentType, nil
}
