package fetcher

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/floatpane/ticketview/config"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Message is one inbound ticket message: its envelope and the stored body.
type Message struct {
	UID       uint32
	From      string
	To        []string
	Subject   string
	Date      time.Time
	MessageID string
	Body      string
	AccountID string // ID of the account this message was fetched from
}

func init() {
	message.CharsetReader = charsetReader
}

// charsetReader decodes any IANA charset go-message does not handle itself.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	encoding, err := ianaindex.IANA.Encoding(strings.ToLower(charset))
	if err != nil {
		return nil, err
	}
	if encoding == nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return transform.NewReader(input, encoding.NewDecoder()), nil
}

func decodeHeader(header string) string {
	dec := new(mime.WordDecoder)
	dec.CharsetReader = charsetReader
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

// ParseMessage reads an RFC 5322 message and keeps its preferred body. HTML
// wins over plain text because the renderer normalizes HTML itself.
func ParseMessage(r io.Reader) (Message, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return Message{}, fmt.Errorf("could not parse message: %w", err)
	}
	defer mr.Close()

	var msg Message
	h := mr.Header
	if subject, err := h.Subject(); err == nil {
		msg.Subject = subject
	} else {
		msg.Subject = decodeHeader(h.Get("Subject"))
	}
	if from, err := h.AddressList("From"); err == nil && len(from) > 0 {
		msg.From = from[0].Address
	} else {
		msg.From = decodeHeader(h.Get("From"))
	}
	for _, field := range []string{"To", "Cc"} {
		if list, err := h.AddressList(field); err == nil {
			for _, addr := range list {
				msg.To = append(msg.To, addr.Address)
			}
		}
	}
	if date, err := h.Date(); err == nil {
		msg.Date = date
	}
	if id, err := h.MessageID(); err == nil {
		msg.MessageID = id
	}

	var plainBody, htmlBody string
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return msg, fmt.Errorf("could not read message part: %w", err)
		}
		if p == nil {
			break
		}

		inline, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		mediaType, _, err := inline.ContentType()
		if err != nil {
			mediaType = "text/plain"
		}
		body, err := io.ReadAll(p.Body)
		if err != nil {
			return msg, fmt.Errorf("could not read message body: %w", err)
		}
		switch strings.ToLower(mediaType) {
		case "text/html":
			if htmlBody == "" {
				htmlBody = string(body)
			}
		case "text/plain":
			if plainBody == "" {
				plainBody = string(body)
			}
		}
	}

	msg.Body = plainBody
	if htmlBody != "" {
		msg.Body = htmlBody
	}
	return msg, nil
}

// LoadFile reads a message from disk. Files ending in .eml are parsed as mail;
// anything else is taken as the stored body verbatim.
func LoadFile(path string) (Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return Message{}, err
	}
	defer f.Close()
	return LoadReader(filepath.Base(path), f, strings.EqualFold(filepath.Ext(path), ".eml"))
}

// LoadReader reads a message named name from r. When eml is true r holds a full
// RFC 5322 message.
func LoadReader(name string, r io.Reader, eml bool) (Message, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Message{}, fmt.Errorf("could not read %s: %w", name, err)
	}
	if eml {
		msg, err := ParseMessage(bytes.NewReader(data))
		if err != nil {
			return Message{}, fmt.Errorf("%s: %w", name, err)
		}
		if msg.Subject == "" {
			msg.Subject = name
		}
		return msg, nil
	}
	return Message{Subject: name, Body: string(data)}, nil
}

func connect(account *config.Account) (*client.Client, error) {
	imapServer := account.GetIMAPServer()
	imapPort := account.GetIMAPPort()

	if imapServer == "" {
		return nil, fmt.Errorf("unsupported service_provider: %s", account.ServiceProvider)
	}

	addr := fmt.Sprintf("%s:%d", imapServer, imapPort)
	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", addr, err)
	}

	if err := c.Login(account.Email, account.Password); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("could not log in as %s: %w", account.Email, err)
	}

	return c, nil
}

// FetchMessages fetches the newest limit messages of mailbox, newest first,
// with their bodies. When the account has a FetchEmail only messages addressed
// to it are kept.
func FetchMessages(account *config.Account, mailbox string, limit uint32) ([]Message, error) {
	c, err := connect(account)
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	mbox, err := c.Select(mailbox, true)
	if err != nil {
		return nil, fmt.Errorf("could not select %s: %w", mailbox, err)
	}
	if mbox.Messages == 0 || limit == 0 {
		return []Message{}, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddRange(seqRange(mbox.Messages, limit))

	section := &imap.BodySectionName{Peek: true}
	fetchItems := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, limit)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, fetchItems, messages)
	}()

	var msgs []Message
	for m := range messages {
		if m == nil || m.Envelope == nil {
			continue
		}
		msg := fromEnvelope(m.Envelope)
		msg.UID = m.Uid
		msg.AccountID = account.ID
		if !addressedTo(msg.To, account.FetchEmail) {
			continue
		}
		if literal := m.GetBody(section); literal != nil {
			if parsed, err := ParseMessage(literal); err == nil {
				msg.Body = parsed.Body
			}
		}
		msgs = append(msgs, msg)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("could not fetch from %s: %w", mailbox, err)
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// seqRange returns the sequence numbers of the newest limit messages.
func seqRange(total, limit uint32) (uint32, uint32) {
	from := uint32(1)
	if total > limit {
		from = total - limit + 1
	}
	return from, total
}

func fromEnvelope(env *imap.Envelope) Message {
	msg := Message{
		Subject:   decodeHeader(env.Subject),
		Date:      env.Date,
		MessageID: env.MessageId,
	}
	if len(env.From) > 0 {
		msg.From = env.From[0].Address()
	}
	for _, addr := range env.To {
		msg.To = append(msg.To, addr.Address())
	}
	for _, addr := range env.Cc {
		msg.To = append(msg.To, addr.Address())
	}
	return msg
}

// addressedTo reports whether any recipient matches fetchEmail. An empty
// fetchEmail matches everything.
func addressedTo(recipients []string, fetchEmail string) bool {
	fetchEmail = strings.TrimSpace(fetchEmail)
	if fetchEmail == "" {
		return true
	}
	for _, r := range recipients {
		if strings.EqualFold(strings.TrimSpace(r), fetchEmail) {
			return true
		}
	}
	return false
}

// ToCache converts fetched messages to their cached form.
func ToCache(msgs []Message) []config.CachedMessage {
	cached := make([]config.CachedMessage, len(msgs))
	for i, m := range msgs {
		cached[i] = config.CachedMessage{
			UID:       m.UID,
			From:      m.From,
			To:        m.To,
			Subject:   m.Subject,
			Date:      m.Date,
			MessageID: m.MessageID,
			AccountID: m.AccountID,
			Body:      m.Body,
		}
	}
	return cached
}

// FromCache converts cached messages back.
func FromCache(cached []config.CachedMessage) []Message {
	msgs := make([]Message, len(cached))
	for i, c := range cached {
		msgs[i] = Message{
			UID:       c.UID,
			From:      c.From,
			To:        c.To,
			Subject:   c.Subject,
			Date:      c.Date,
			MessageID: c.MessageID,
			AccountID: c.AccountID,
			Body:      c.Body,
		}
	}
	return msgs
}
