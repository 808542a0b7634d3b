package editor

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/reviewbridge/reviewbridge/logger"
)

const (
	jsonRPCVersion = "2.0"
	// methodNotFound is the JSON-RPC code the extension answers with when
	// the editor has no command with the requested identifier.
	methodNotFound = -32601
)

// ErrBridgeClosed reports that the editor closed its end of the stdio
// bridge while a call was waiting for a response.
var ErrBridgeClosed = errors.New("editor bridge closed")

// Ensure BridgeHost implements Host interface
var _ Host = (*BridgeHost)(nil)

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id,omitempty"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("editor error %d: %s", e.Code, e.Message)
}

// BridgeHost forwards every Host call to the editor extension as a
// line-delimited JSON-RPC request on the process's stdout, and matches
// responses arriving on stdin by id. Calls that need no answer (info and
// output traffic) go out as notifications.
//
// The extension spawns the process with --ipc stdio and acts as the server.
type BridgeHost struct {
	writer *bufio.Writer
	wmu    sync.Mutex

	pmu     sync.Mutex
	pending map[string]chan rpcResponse
	closed  bool
}

// NewBridgeHost creates a bridge over the given streams and starts reading
// responses. Pass os.Stdin and os.Stdout in production.
func NewBridgeHost(r io.Reader, w io.Writer) *BridgeHost {
	h := &BridgeHost{
		writer:  bufio.NewWriter(w),
		pending: make(map[string]chan rpcResponse),
	}
	go h.readLoop(bufio.NewReader(r))
	return h
}

// readLoop dispatches responses to their waiting calls. On EOF or a read
// error every outstanding call fails with ErrBridgeClosed.
func (h *BridgeHost) readLoop(r *bufio.Reader) {
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Warnf("Bridge read failed: %v", err)
			}
			break
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var resp rpcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			logger.Warnf("Bridge discarding malformed frame: %v", err)
			continue
		}

		h.pmu.Lock()
		ch, ok := h.pending[resp.ID]
		if ok {
			delete(h.pending, resp.ID)
		}
		h.pmu.Unlock()

		if !ok {
			logger.Debugf("Bridge has no waiter for response id %s", resp.ID)
			continue
		}
		ch <- resp
	}

	h.pmu.Lock()
	h.closed = true
	for id, ch := range h.pending {
		delete(h.pending, id)
		close(ch)
	}
	h.pmu.Unlock()
}

// call sends one request and blocks until its response arrives. A non-nil
// result is filled from the response payload.
func (h *BridgeHost) call(method string, params interface{}, result interface{}) error {
	id := uuid.NewString()
	ch := make(chan rpcResponse, 1)

	h.pmu.Lock()
	if h.closed {
		h.pmu.Unlock()
		return ErrBridgeClosed
	}
	h.pending[id] = ch
	h.pmu.Unlock()

	if err := h.send(rpcRequest{JSONRPC: jsonRPCVersion, ID: id, Method: method, Params: params}); err != nil {
		h.pmu.Lock()
		delete(h.pending, id)
		h.pmu.Unlock()
		return err
	}

	resp, ok := <-ch
	if !ok {
		return ErrBridgeClosed
	}
	if resp.Error != nil {
		return resp.Error
	}
	if result != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("decoding %s result: %w", method, err)
		}
	}
	return nil
}

// notify sends a request without an id; the extension sends nothing back.
func (h *BridgeHost) notify(method string, params interface{}) {
	if err := h.send(rpcRequest{JSONRPC: jsonRPCVersion, Method: method, Params: params}); err != nil {
		logger.Debugf("Bridge notification %s failed: %v", method, err)
	}
}

func (h *BridgeHost) send(frame rpcRequest) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encoding %s frame: %w", frame.Method, err)
	}

	h.wmu.Lock()
	defer h.wmu.Unlock()
	if _, err := h.writer.Write(append(data, '\n')); err != nil {
		return err
	}
	return h.writer.Flush()
}

// ExecuteCommand invokes an editor command by identifier. A method-not-found
// answer maps to ErrUnknownCommand so the prober can treat a missing command
// like any other failed candidate.
func (h *BridgeHost) ExecuteCommand(id string, args ...interface{}) error {
	params := struct {
		Command string        `json:"command"`
		Args    []interface{} `json:"args,omitempty"`
	}{Command: id, Args: args}

	err := h.call("editor.executeCommand", params, nil)
	var remote *rpcError
	if errors.As(err, &remote) && remote.Code == methodNotFound {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, id)
	}
	return err
}

// ShowInputBox asks the editor for one line of text. A null value in the
// response means the user dismissed the box.
func (h *BridgeHost) ShowInputBox(box InputBox) (string, error) {
	params := struct {
		Title       string `json:"title"`
		Prompt      string `json:"prompt"`
		Placeholder string `json:"placeholder,omitempty"`
	}{Title: box.Title, Prompt: box.Prompt, Placeholder: box.Placeholder}

	var result struct {
		Value *string `json:"value"`
	}
	if err := h.call("editor.showInputBox", params, &result); err != nil {
		return "", err
	}
	if result.Value == nil {
		return "", ErrCancelled
	}
	return *result.Value, nil
}

// ActiveFile returns the document active in the editor. An empty path in
// the response means no editor tab is active.
func (h *BridgeHost) ActiveFile() (File, error) {
	var result struct {
		Path string `json:"path"`
		Text string `json:"text"`
	}
	if err := h.call("editor.activeFile", nil, &result); err != nil {
		return File{}, err
	}
	if result.Path == "" {
		return File{}, ErrNoActiveFile
	}
	return File{Path: result.Path, Text: result.Text}, nil
}

type pathParams struct {
	Path string `json:"path"`
}

// OpenDocument opens the file at path in an editor tab.
func (h *BridgeHost) OpenDocument(path string) error {
	return h.call("editor.openDocument", pathParams{Path: path}, nil)
}

// CloseDocument closes any tab showing the file at path.
func (h *BridgeHost) CloseDocument(path string) error {
	return h.call("editor.closeDocument", pathParams{Path: path}, nil)
}

type messageParams struct {
	Message string `json:"message"`
}

// ShowInfo raises an information notification in the editor.
func (h *BridgeHost) ShowInfo(message string) {
	h.notify("editor.showInfo", messageParams{Message: message})
}

// ShowError raises an error notification in the editor.
func (h *BridgeHost) ShowError(message string) {
	h.notify("editor.showError", messageParams{Message: message})
}

// AppendOutput writes one line to the extension's output channel.
func (h *BridgeHost) AppendOutput(line string) {
	h.notify("editor.appendOutput", struct {
		Line string `json:"line"`
	}{Line: line})
}

// RevealOutput brings the output channel into view.
func (h *BridgeHost) RevealOutput() {
	h.notify("editor.revealOutput", nil)
}

// WriteClipboard replaces the editor-side clipboard contents.
func (h *BridgeHost) WriteClipboard(text string) error {
	return h.call("editor.writeClipboard", struct {
		Text string `json:"text"`
	}{Text: text}, nil)
}
