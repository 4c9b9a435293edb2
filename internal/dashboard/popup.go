package dashboard

import "context"

// Popup is the module-creation dialog: hidden or visible, with one name input.
type Popup struct {
	modules *Modules
	visible bool
	input   string
}

func NewPopup(modules *Modules) *Popup {
	return &Popup{modules: modules}
}

func (p *Popup) Visible() bool { return p.visible }

func (p *Popup) Input() string { return p.input }

func (p *Popup) SetInput(s string) { p.input = s }

// Open shows the dialog. The surface focuses the name input.
func (p *Popup) Open() { p.visible = true }

// Close hides the dialog and clears the input.
func (p *Popup) Close() {
	p.visible = false
	p.input = ""
}

// Submit adds the typed module. On success the dialog closes; on any
// error it stays open with the input untouched.
func (p *Popup) Submit(ctx context.Context) (Row, error) {
	row, err := p.modules.Add(ctx, p.input)
	if err != nil {
		return Row{}, err
	}
	p.Close()
	return row, nil
}
