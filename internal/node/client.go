// Package node — клиент REST API маркетплейс-ноды, к которой подключён шлюз.
package node

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
	"github.com/ignatzorin/bazaar-gateway/internal/pkg/apperror"
)

// Client выполняет запросы к ноде. Все команды жизненного цикла заказов
// проходят через него.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient создаёт клиента ноды.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // Команды ноды ждут подтверждений сети, быстрый таймаут им вредит
		},
	}
}

// errorBody — тело ошибки ноды.
type errorBody struct {
	Reason  string `json:"reason"`
	Success *bool  `json:"success,omitempty"`
}

// ConfirmOrder принимает либо отклоняет заказ со стороны продавца.
func (c *Client) ConfirmOrder(ctx context.Context, orderID string, reject bool) error {
	payload := map[string]any{"orderId": orderID, "reject": reject}
	action := models.ActionAccept
	if reject {
		action = models.ActionReject
	}
	return c.command(ctx, action, "/ob/orderconfirmation", payload)
}

// CancelOrder отменяет ещё не принятый заказ со стороны покупателя.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	return c.command(ctx, models.ActionCancel, "/ob/ordercancel", map[string]any{"orderId": orderID})
}

// FulfillOrder отмечает заказ отгруженным.
func (c *Client) FulfillOrder(ctx context.Context, fulfillment map[string]any) error {
	return c.command(ctx, models.ActionFulfill, "/ob/orderfulfillment", fulfillment)
}

// CompleteOrder завершает заказ со стороны покупателя, с отзывом.
func (c *Client) CompleteOrder(ctx context.Context, completion map[string]any) error {
	return c.command(ctx, models.ActionComplete, "/ob/ordercompletion", completion)
}

// RefundOrder возвращает средства покупателю.
func (c *Client) RefundOrder(ctx context.Context, orderID string) error {
	return c.command(ctx, models.ActionRefund, "/ob/refund", map[string]any{"orderId": orderID})
}

// OpenDispute открывает спор по заказу.
func (c *Client) OpenDispute(ctx context.Context, orderID, claim string) error {
	payload := map[string]any{"orderId": orderID, "claim": claim}
	return c.command(ctx, models.ActionOpenDispute, "/ob/opendispute", payload)
}

// CloseDispute разрешает спор со стороны модератора.
func (c *Client) CloseDispute(ctx context.Context, resolution map[string]any) error {
	return c.command(ctx, models.ActionResolveDispute, "/ob/closedispute", resolution)
}

// GetOrder загружает заказ целиком.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := c.get(ctx, "/ob/order/"+url.PathEscape(orderID), &order); err != nil {
		if isNotFound(err) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, err
	}
	order.ID = orderID
	return &order, nil
}

// GetCase загружает модераторский кейс целиком.
func (c *Client) GetCase(ctx context.Context, caseID string) (*models.Case, error) {
	var disputeCase models.Case
	if err := c.get(ctx, "/ob/case/"+url.PathEscape(caseID), &disputeCase); err != nil {
		if isNotFound(err) {
			return nil, apperror.ErrCaseNotFound
		}
		return nil, err
	}
	disputeCase.ID = caseID
	return &disputeCase, nil
}

// WalletBalance возвращает баланс кошелька ноды.
func (c *Client) WalletBalance(ctx context.Context) (*models.WalletBalance, error) {
	var balance models.WalletBalance
	if err := c.get(ctx, "/wallet/balance", &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// Spend отправляет средства из кошелька ноды.
func (c *Client) Spend(ctx context.Context, req models.SpendRequest) (*models.SpendResult, error) {
	var result models.SpendResult
	if err := c.post(ctx, "/wallet/spend", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// NodeConfig возвращает конфигурацию ноды, в том числе собственный peerID.
func (c *Client) NodeConfig(ctx context.Context) (*models.NodeConfig, error) {
	var config models.NodeConfig
	if err := c.get(ctx, "/ob/config", &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// GetProfile загружает публичный профиль участника.
func (c *Client) GetProfile(ctx context.Context, peerID string) (*models.Profile, error) {
	var profile models.Profile
	if err := c.get(ctx, "/ob/profile/"+url.PathEscape(peerID), &profile); err != nil {
		return nil, err
	}
	if profile.PeerID == "" {
		profile.PeerID = peerID
	}
	return &profile, nil
}

// command выполняет POST команды жизненного цикла и превращает отказ ноды
// в RemoteCommandError с её формулировкой причины.
func (c *Client) command(ctx context.Context, action models.OrderAction, path string, payload any) error {
	resp, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return fmt.Errorf("node: команда %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var body errorBody
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return &apperror.RemoteCommandError{
			Action: string(action),
			Reason: body.Reason,
			Status: resp.StatusCode,
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("node: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("node: разбор ответа %s: %w", path, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	resp, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return fmt.Errorf("node: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("node: разбор ответа %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	return c.httpClient.Do(req)
}

func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}
	var body errorBody
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode == http.StatusNotFound {
		return &statusError{status: resp.StatusCode, reason: body.Reason}
	}
	return fmt.Errorf("node: код ответа %d: %s", resp.StatusCode, body.Reason)
}

type statusError struct {
	status int
	reason string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("node: код ответа %d: %s", e.status, e.reason)
}

func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.status == http.StatusNotFound
}
