package chain

import (
	"context"
	"testing"
	"time"
)

const testAddress = "0x00000000219ab540356cBB839Cbe05303d7705Fa"

func TestFetchNativeBalance(t *testing.T) {
	var last rpcRequest
	// 1.5 ETH = 1500000000000000000 wei
	server := rpcServer(t, `"0x14d1120d7b160000"`, &last)
	defer server.Close()

	client := NewClient(server.URL, 0, time.Millisecond)
	bal, err := client.FetchNativeBalance(context.Background(), testAddress, 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bal.String() != "1.5" {
		t.Errorf("balance = %s, want 1.5", bal)
	}
	if last.Method != "eth_getBalance" {
		t.Errorf("method = %q, want eth_getBalance", last.Method)
	}
}

func TestFetchTokenBalance(t *testing.T) {
	var last rpcRequest
	// 2500.5 USDC with 6 decimals = 2500500000 = 0x950a9a20
	server := rpcServer(t, `"0x00000000000000000000000000000000000000000000000000000000950a9a20"`, &last)
	defer server.Close()

	client := NewClient(server.URL, 0, time.Millisecond)
	bal, err := client.FetchTokenBalance(context.Background(), "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606EB48", testAddress, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bal.String() != "2500.5" {
		t.Errorf("balance = %s, want 2500.5", bal)
	}
	if last.Method != "eth_call" {
		t.Errorf("method = %q, want eth_call", last.Method)
	}
}

func TestFetchTokenBalanceEmptyResult(t *testing.T) {
	server := rpcServer(t, `"0x"`, nil)
	defer server.Close()

	client := NewClient(server.URL, 0, time.Millisecond)
	bal, err := client.FetchTokenBalance(context.Background(), "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606EB48", testAddress, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bal.IsZero() {
		t.Errorf("balance = %s, want 0", bal)
	}
}

func TestEncodeBalanceOf(t *testing.T) {
	got, err := encodeBalanceOf(testAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "0x70a08231" + "000000000000000000000000" + "00000000219ab540356cbb839cbe05303d7705fa"
	if got != want {
		t.Errorf("encodeBalanceOf() = %q, want %q", got, want)
	}

	if _, err := encodeBalanceOf("0x1234"); err == nil {
		t.Error("expected error for short address")
	}
}

func TestIsAddress(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{testAddress, true},
		{"00000000219ab540356cBB839Cbe05303d7705Fa", false},
		{"0x1234", false},
		{"0xZZ000000219ab540356cBB839Cbe05303d7705Fa", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsAddress(tt.in); got != tt.want {
				t.Errorf("IsAddress(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
