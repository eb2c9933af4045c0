package pix

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPayload(t *testing.T) {
	got := Payload("pix@levenuts.com.br", 25, "Levenuts")
	want := "PAY:pix@levenuts.com.br|AMT:25.00|MSG:Levenuts"
	if got != want {
		t.Fatalf("Payload = %q, want %q", got, want)
	}
}

func TestInstructions(t *testing.T) {
	c := NewClient("api.qrserver.com", "chave")

	in := c.Instructions("o1", 12.5)
	if in.Payload != "PAY:chave|AMT:12.50|MSG:Levenuts" {
		t.Fatalf("unexpected payload: %q", in.Payload)
	}
	wantURL := "https://api.qrserver.com/v1/create-qr-code/?size=240x240&data=PAY%3Achave%7CAMT%3A12.50%7CMSG%3ALevenuts"
	if in.QRURL != wantURL {
		t.Fatalf("QRURL = %q, want %q", in.QRURL, wantURL)
	}
}

func TestFetchQRCode_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/v1/create-qr-code/" {
			t.Fatalf("path = %s, want /v1/create-qr-code/", r.URL.Path)
		}
		if got := r.URL.Query().Get("data"); got != "PAY:k|AMT:1.00|MSG:Levenuts" {
			t.Fatalf("data = %q", got)
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG fake"))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "k")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	body, ct, err := client.FetchQRCode(ctx, Payload("k", 1, DefaultMerchant))
	if err != nil {
		t.Fatalf("FetchQRCode error: %v", err)
	}
	if ct != "image/png" {
		t.Fatalf("content type = %q, want image/png", ct)
	}
	if !strings.HasPrefix(string(body), "\x89PNG") {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestFetchQRCode_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "k")

	_, _, err := client.FetchQRCode(context.Background(), "x")
	if err == nil {
		t.Fatalf("expected error for 503")
	}
}

func TestFetchQRCode_NotConfigured(t *testing.T) {
	client := NewClient("", "k")

	if _, _, err := client.FetchQRCode(context.Background(), "x"); err == nil {
		t.Fatalf("expected error without base URL")
	}
}
