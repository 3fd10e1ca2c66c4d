package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"net/url"
	"strconv"
	"strings"
)

// Inquiry 是買家對某台車輛送出的詢問
type Inquiry struct {
	Name        string
	Email       string
	Message     string
	SellerName  string
	SellerEmail string
	SellerPhone string
	CarTitle    string
}

// Subject 回傳通知信的主旨
func (i Inquiry) Subject() string {
	return fmt.Sprintf("New Message About %s", i.CarTitle)
}

// Body 回傳通知信的內容
func (i Inquiry) Body() string {
	return fmt.Sprintf("New Inquiry About %s\nFrom: %s\nEmail: %s\n\n%s", i.CarTitle, i.Name, i.Email, i.Message)
}

// WhatsAppText 回傳預先填好的 WhatsApp 訊息
func (i Inquiry) WhatsAppText() string {
	return fmt.Sprintf("Hello %s,\nYou have a new inquiry about *%s*.\n\nFrom: %s\nEmail: %s\n\nMessage:\n%s",
		i.SellerName, i.CarTitle, i.Name, i.Email, i.Message)
}

// WhatsAppURL 回傳開啟與賣家對話的連結，電話號碼只保留數字
func (i Inquiry) WhatsAppURL() string {
	phone := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, i.SellerPhone)
	text := strings.ReplaceAll(url.QueryEscape(i.WhatsAppText()), "+", "%20")
	return "https://wa.me/" + phone + "?text=" + text
}

// MailConfig 是寄信需要的設定，Host 為空時不寄信
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c MailConfig) Enabled() bool {
	return c.Host != ""
}

// SendMailFunc 與 smtp.SendMail 相同
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Notifier 負責把詢問轉給賣家，寄信失敗只記錄不回傳
type Notifier struct {
	config   MailConfig
	sendMail SendMailFunc
}

type NotifierOption func(*Notifier)

// WithSendMail 替換實際寄信的函式
func WithSendMail(send SendMailFunc) NotifierOption {
	return func(n *Notifier) {
		n.sendMail = send
	}
}

func NewNotifier(config MailConfig, opts ...NotifierOption) *Notifier {
	if config.Port == 0 {
		config.Port = 587
	}
	n := &Notifier{config: config, sendMail: smtp.SendMail}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify 寄送通知信並回傳 WhatsApp 連結；寄信失敗時回傳 false
func (n *Notifier) Notify(ctx context.Context, inquiry Inquiry) (string, bool) {
	const op = "Notifier.Notify"
	link := inquiry.WhatsAppURL()
	if err := n.SendEmail(ctx, inquiry); err != nil {
		slog.Warn("Fail to send inquiry email", slog.String("op", op), slog.String("car", inquiry.CarTitle), slog.Any("error", err))
		return link, false
	}
	return link, true
}

// SendEmail 透過 SMTP 寄送通知信
func (n *Notifier) SendEmail(ctx context.Context, inquiry Inquiry) error {
	const op = "Notifier.SendEmail"
	if !n.config.Enabled() {
		return fmt.Errorf("[%s] Mail server is not configured", op)
	}
	to := strings.TrimSpace(inquiry.SellerEmail)
	if to == "" {
		return fmt.Errorf("[%s] Seller has no email address", op)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("[%s] Fail to send email, err=%w", op, err)
	}
	from := n.config.From
	if from == "" {
		from = n.config.Username
	}
	var auth smtp.Auth
	if n.config.Username != "" {
		auth = smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)
	}
	addr := net.JoinHostPort(n.config.Host, strconv.Itoa(n.config.Port))
	if err := n.sendMail(addr, auth, from, []string{to}, n.message(from, to, inquiry)); err != nil {
		return fmt.Errorf("[%s] Fail to send email, err=%w", op, err)
	}
	return nil
}

func (n *Notifier) message(from, to string, inquiry Inquiry) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	if inquiry.Email != "" {
		b.WriteString("Reply-To: " + stripNewlines(inquiry.Email) + "\r\n")
	}
	b.WriteString("Subject: " + stripNewlines(inquiry.Subject()) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(inquiry.Body(), "\n", "\r\n"))
	return []byte(b.String())
}

func stripNewlines(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
