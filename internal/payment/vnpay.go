package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VNPayClient builds signed payment URLs for the VNPay gateway. The order
// handlers only ever consume the transaction reference it issues; everything
// else about the gateway stays behind this package.
type VNPayClient struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	ReturnURL  string
}

func NewVNPayClient(tmnCode, hashSecret, payURL, returnURL string) *VNPayClient {
	return &VNPayClient{
		TmnCode:    tmnCode,
		HashSecret: hashSecret,
		PayURL:     payURL,
		ReturnURL:  returnURL,
	}
}

// Initiation is the result of starting a payment: the URL the client is
// redirected to and the reference the order is finalized with.
type Initiation struct {
	PayURL string
	TxnRef string
}

// NewTxnRef issues a fresh opaque transaction reference.
func NewTxnRef() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}

// Initiate builds a signed payment URL for the given amount (VND) and order
// description, bound to a freshly issued transaction reference.
func (c *VNPayClient) Initiate(amount float64, orderInfo, clientIP string, now time.Time) Initiation {
	txnRef := NewTxnRef()

	params := url.Values{}
	params.Set("vnp_Version", "2.1.0")
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", c.TmnCode)
	// gateway expects the amount in minor units
	params.Set("vnp_Amount", strconv.FormatInt(int64(amount*100), 10))
	params.Set("vnp_CurrCode", "VND")
	params.Set("vnp_TxnRef", txnRef)
	params.Set("vnp_OrderInfo", orderInfo)
	params.Set("vnp_OrderType", "other")
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_IpAddr", clientIP)
	params.Set("vnp_ReturnUrl", c.ReturnURL)
	params.Set("vnp_CreateDate", now.Format("20060102150405"))

	query := sortedEncode(params)
	signed := query + "&vnp_SecureHash=" + c.sign(query)

	return Initiation{
		PayURL: c.PayURL + "?" + signed,
		TxnRef: txnRef,
	}
}

// VerifyCallback checks the gateway signature on a return/IPN query.
func (c *VNPayClient) VerifyCallback(params url.Values) bool {
	received := params.Get("vnp_SecureHash")
	if received == "" {
		return false
	}

	filtered := url.Values{}
	for key, values := range params {
		if key == "vnp_SecureHash" || key == "vnp_SecureHashType" {
			continue
		}
		for _, v := range values {
			filtered.Add(key, v)
		}
	}

	expected := c.sign(sortedEncode(filtered))
	return hmac.Equal([]byte(strings.ToLower(received)), []byte(expected))
}

// sortedEncode encodes params with keys in ascending order, the canonical
// form the gateway signs.
func sortedEncode(params url.Values) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		for _, v := range params[key] {
			parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(parts, "&")
}

func (c *VNPayClient) sign(query string) string {
	mac := hmac.New(sha512.New, []byte(c.HashSecret))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}
