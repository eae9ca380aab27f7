package actuator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/vk/stepflow/internal/plan"
)

// Options configures the chromedp-backed actuator.
type Options struct {
	Headless bool
}

// Browser drives a real Chrome instance through chromedp. The browser is
// started lazily on the first action and kept open until Close. A single
// tab backs all actions, so Perform serializes concurrent callers.
type Browser struct {
	opts Options

	mu            sync.Mutex
	allocCtx      context.Context
	browserCtx    context.Context
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
}

// NewBrowser creates a chromedp actuator. No browser process is started
// until the first Perform call.
func NewBrowser(opts Options) *Browser {
	return &Browser{opts: opts}
}

func (b *Browser) init() error {
	if b.browserCtx != nil {
		select {
		case <-b.browserCtx.Done():
			b.cleanup()
		default:
			return nil
		}
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("headless", b.opts.Headless),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
	)

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	b.browserCtx, b.browserCancel = chromedp.NewContext(b.allocCtx)

	return chromedp.Run(b.browserCtx)
}

func (b *Browser) cleanup() {
	if b.browserCancel != nil {
		b.browserCancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
	b.browserCtx = nil
	b.allocCtx = nil
}

// Close shuts the browser down. Safe to call multiple times.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cleanup()
}

// Perform executes one atomic action against the page.
//
// The action context derives from the browser's own context, not from the
// caller's: a cancelled run must not abandon an action mid-flight and leave
// the page in a half-interacted state. The caller's ctx gates whether a new
// action starts at all.
func (b *Browser) Perform(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.init(); err != nil {
		return &Failure{Kind: KindOther, Message: fmt.Sprintf("browser start: %v", err)}
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	actionCtx, cancel := context.WithTimeout(b.browserCtx, timeout)
	defer cancel()

	var actions []chromedp.Action
	if req.Reload {
		actions = append(actions, chromedp.Reload())
	}
	if req.ScrollFirst && req.Selector != "" {
		actions = append(actions, chromedp.ScrollIntoView(req.Selector, selOpt(req.Selector)))
	}

	switch req.Action {
	case plan.ActionNavigate:
		actions = append(actions, chromedp.Navigate(req.Value))

	case plan.ActionClick:
		actions = append(actions, chromedp.Click(req.Selector, selOpt(req.Selector)))

	case plan.ActionType:
		actions = append(actions,
			chromedp.Clear(req.Selector, selOpt(req.Selector)),
			chromedp.SendKeys(req.Selector, req.Value, selOpt(req.Selector)),
		)

	case plan.ActionSelect:
		actions = append(actions, chromedp.SetValue(req.Selector, req.Value, selOpt(req.Selector)))

	case plan.ActionWait:
		if req.Selector != "" {
			actions = append(actions, chromedp.WaitVisible(req.Selector, selOpt(req.Selector)))
		} else {
			actions = append(actions, chromedp.Sleep(waitDuration(req.Value)))
		}

	case plan.ActionAssert:
		return b.assert(actionCtx, req)

	default:
		return &Failure{Kind: KindInvalidTarget, Message: fmt.Sprintf("unsupported action %q", req.Action)}
	}

	if err := chromedp.Run(actionCtx, actions...); err != nil {
		return mapError(err)
	}
	return nil
}

// assert reads visible text and checks the expected value appears in it,
// case-insensitively. A missing expectation is a plain failure, not a
// selector problem.
func (b *Browser) assert(actionCtx context.Context, req Request) error {
	sel := req.Selector
	if sel == "" {
		sel = "body"
	}
	var text string
	if err := chromedp.Run(actionCtx, chromedp.Text(sel, &text, selOpt(sel))); err != nil {
		return mapError(err)
	}
	if !strings.Contains(strings.ToLower(text), strings.ToLower(req.Value)) {
		return &Failure{Kind: KindOther, Message: fmt.Sprintf("expected %q not found on page", req.Value)}
	}
	return nil
}

// selOpt picks the chromedp query strategy for a selector. XPath expressions
// go through the search backend, everything else is a CSS query.
func selOpt(sel string) chromedp.QueryOption {
	if strings.HasPrefix(sel, "//") || strings.HasPrefix(sel, "(//") {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

func waitDuration(value string) time.Duration {
	if value == "" {
		return 2 * time.Second
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return 2 * time.Second
}

// mapError converts chromedp errors into the typed failure taxonomy. This is
// the one place message matching is allowed: chromedp reports most DOM-level
// conditions only as error strings, so the boundary adapter translates them
// once and the rest of the engine sees only typed kinds.
func mapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Failure{Kind: KindTimeout, Message: err.Error()}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "could not find node") || strings.Contains(msg, "no nodes found"):
		return &Failure{Kind: KindTargetNotFound, Message: err.Error()}
	case strings.Contains(msg, "node with given id"):
		return &Failure{Kind: KindStaleReference, Message: err.Error()}
	case strings.Contains(msg, "not visible") || strings.Contains(msg, "intercept"):
		return &Failure{Kind: KindActionIntercepted, Message: err.Error()}
	case strings.Contains(msg, "invalid selector") || strings.Contains(msg, "syntax error"):
		return &Failure{Kind: KindInvalidTarget, Message: err.Error()}
	}
	return &Failure{Kind: KindOther, Message: err.Error()}
}
