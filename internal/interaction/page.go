// internal/interaction/page.go
package interaction

import (
	"context"
	"fmt"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const scrollIntoViewScript = `arguments[0].scrollIntoView(true);`

// dragAndDropScript synthesizes the HTML5 drag events that native pointer
// input does not trigger in headless browsers.
const dragAndDropScript = `
var src = arguments[0], dst = arguments[1];
var data = new DataTransfer();
function fire(el, type) {
	var ev = new DragEvent(type, {bubbles: true, cancelable: true, dataTransfer: data});
	el.dispatchEvent(ev);
}
fire(src, 'dragstart');
fire(dst, 'dragenter');
fire(dst, 'dragover');
fire(dst, 'drop');
fire(src, 'dragend');
`

// ScrollToElement waits for target to be visible and scrolls it into view.
func (in *Interactor) ScrollToElement(ctx context.Context, target Locator, opts ...CallOption) error {
	if err := in.WaitVisible(ctx, target, opts...); err != nil {
		return err
	}
	if err := in.driver.ExecuteScript(ctx, scrollIntoViewScript, nil, target); err != nil {
		return &Error{Op: OpScrollToElement, Target: target, Attempts: 1, Err: err}
	}
	return nil
}

// DragAndDrop drags src onto dst once both are attached.
func (in *Interactor) DragAndDrop(ctx context.Context, src, dst Locator, opts ...CallOption) error {
	for _, target := range []Locator{src, dst} {
		if err := in.WaitPresent(ctx, target, opts...); err != nil {
			return err
		}
	}
	if err := in.driver.ExecuteScript(ctx, dragAndDropScript, nil, src, dst); err != nil {
		return &Error{Op: OpDragAndDrop, Target: src, Attempts: 1, Err: fmt.Errorf("drop onto %s: %w", dst, err)}
	}
	return nil
}

// IsCurrentURLDifferentFromBase reports whether the browser has navigated
// away from base.
func (in *Interactor) IsCurrentURLDifferentFromBase(ctx context.Context, base string) (bool, error) {
	current, err := in.driver.CurrentURL(ctx)
	if err != nil {
		return false, &Error{Op: OpURLDifferentCheck, Target: Page, Attempts: 1, Err: err}
	}
	return current != base, nil
}

// RedirectedWindowTitles waits for at least one window besides the first,
// then visits every child window, records its title once loaded and closes
// it. Focus is returned to the first window afterwards.
func (in *Interactor) RedirectedWindowTitles(ctx context.Context, opts ...CallOption) ([]string, error) {
	var handles []string
	err := in.poll(ctx, in.newRequest(OpWindowTitles, Page, FlatSlice, opts), "a second browser window",
		func(ctx context.Context) (bool, error) {
			var err error
			handles, err = in.driver.WindowHandles(ctx)
			return len(handles) >= 2, err
		})
	if err != nil {
		return nil, err
	}

	parent := handles[0]
	titles := make([]string, 0, len(handles)-1)
	for _, handle := range handles[1:] {
		if err := in.driver.SwitchToWindow(ctx, handle); err != nil {
			return titles, &Error{Op: OpWindowTitles, Target: Page, Attempts: 1, Err: err}
		}
		var title string
		err := in.poll(ctx, in.newRequest(OpWindowTitles, Page, FlatSlice, opts), "child window title to load",
			func(ctx context.Context) (bool, error) {
				var err error
				title, err = in.driver.Title(ctx)
				return title != "", err
			})
		if err != nil {
			return titles, err
		}
		titles = append(titles, title)
		if err := in.driver.CloseWindow(ctx); err != nil {
			return titles, &Error{Op: OpWindowTitles, Target: Page, Attempts: 1, Err: err}
		}
	}
	if err := in.driver.SwitchToWindow(ctx, parent); err != nil {
		return titles, &Error{Op: OpWindowTitles, Target: Page, Attempts: 1, Err: err}
	}
	return titles, nil
}

// UploadFile hands the file at path to the file input target. The path is
// made absolute first since the browser resolves it independently.
func (in *Interactor) UploadFile(ctx context.Context, target Locator, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return &Error{Op: OpUploadFile, Target: target, Attempts: 1, Err: err}
	}
	exists, err := afero.Exists(in.fs, abs)
	if err != nil {
		return &Error{Op: OpUploadFile, Target: target, Attempts: 1, Err: err}
	}
	if !exists {
		return &Error{Op: OpUploadFile, Target: target, Attempts: 1,
			Err: fmt.Errorf("%w in path %s", ErrFileNotFound, path)}
	}
	if err := in.driver.SetUploadFiles(ctx, target, []string{abs}); err != nil {
		return &Error{Op: OpUploadFile, Target: target, Attempts: 1, Err: err}
	}
	return nil
}

// VerifyFileDownloaded polls dir until name appears in it.
func (in *Interactor) VerifyFileDownloaded(ctx context.Context, dir, name string, opts ...CallOption) error {
	path := filepath.Join(dir, name)
	in.logger.Debug("Waiting for download.", zap.String("path", path))
	return in.poll(ctx, in.newRequest(OpVerifyDownload, Page, FlatSlice, opts),
		fmt.Sprintf("file %s to appear", path),
		func(context.Context) (bool, error) {
			return afero.Exists(in.fs, path)
		})
}

// SetEditorContent replaces the content of the index-th TinyMCE editor on the
// page with body and saves it back to the underlying textarea.
func (in *Interactor) SetEditorContent(ctx context.Context, index int, body string) error {
	html := `<html><head><style type="text/css">.c0 { font-family: Arial }</style></head><body class="c0">` + body + `</body></html>`
	quoted, err := json.Marshal(html)
	if err != nil {
		return &Error{Op: OpSetEditorContent, Target: Page, Attempts: 1, Err: err}
	}
	script := fmt.Sprintf(`var ed = tinyMCE.editors[%d]; ed.resetContent(); ed.setContent(%s); ed.save();`, index, quoted)
	if err := in.driver.ExecuteScript(ctx, script, nil); err != nil {
		return &Error{Op: OpSetEditorContent, Target: Page, Attempts: 1, Err: err}
	}
	return nil
}

// EditorContent returns the HTML content of the index-th TinyMCE editor.
func (in *Interactor) EditorContent(ctx context.Context, index int) (string, error) {
	var content string
	script := fmt.Sprintf(`return tinyMCE.editors[%d].getContent();`, index)
	if err := in.driver.ExecuteScript(ctx, script, &content); err != nil {
		return "", &Error{Op: OpEditorContent, Target: Page, Attempts: 1, Err: err}
	}
	return content, nil
}
