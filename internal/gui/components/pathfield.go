package components

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

type PathKind int

const (
	OpenWorkbook PathKind = iota
	Folder
	SaveWorkbook
)

var workbookFilter = storage.NewExtensionFileFilter([]string{".xlsx"})

// PathField is a text entry with a Browse button that fills it from a file
// or folder dialog.
type PathField struct {
	Entry  *widget.Entry
	Button *widget.Button
	kind   PathKind
	window fyne.Window
}

func NewPathField(window fyne.Window, kind PathKind, initial string) *PathField {
	f := &PathField{Entry: widget.NewEntry(), kind: kind, window: window}
	f.Entry.SetText(initial)
	f.Button = widget.NewButton("Browse...", f.browse)
	return f
}

// Path is the trimmed entry text.
func (f *PathField) Path() string {
	return strings.TrimSpace(f.Entry.Text)
}

func (f *PathField) Row() fyne.CanvasObject {
	return container.NewBorder(nil, nil, nil, f.Button, f.Entry)
}

func (f *PathField) browse() {
	switch f.kind {
	case OpenWorkbook:
		d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			defer reader.Close()
			f.Entry.SetText(reader.URI().Path())
		}, f.window)
		d.SetFilter(workbookFilter)
		d.Show()
	case Folder:
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			f.Entry.SetText(uri.Path())
		}, f.window)
	case SaveWorkbook:
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			f.Entry.SetText(writer.URI().Path())
		}, f.window)
		d.SetFilter(workbookFilter)
		d.SetFileName("Summary.xlsx")
		d.Show()
	}
}
