package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"positive-area/internal/gui/components"
)

// View lays out the Single, Batch and Report tabs above the status log.
type View struct {
	window     fyne.Window
	controller *Controller

	singleInput  *components.PathField
	singleOutput *components.PathField
	batchInput   *components.PathField
	batchOutput  *components.PathField
	batchDryRun  *widget.Check
	reportInput  *components.PathField
	reportOutput *components.PathField

	actions []*widget.Button
	status  *components.StatusLog

	mainContainer *fyne.Container
}

func NewView(window fyne.Window, defaultOutputDir string) *View {
	v := &View{
		window:       window,
		singleInput:  components.NewPathField(window, components.OpenWorkbook, ""),
		singleOutput: components.NewPathField(window, components.Folder, defaultOutputDir),
		batchInput:   components.NewPathField(window, components.Folder, ""),
		batchOutput:  components.NewPathField(window, components.Folder, defaultOutputDir),
		batchDryRun:  widget.NewCheck("Dry run (validate only)", nil),
		reportInput:  components.NewPathField(window, components.Folder, ""),
		reportOutput: components.NewPathField(window, components.SaveWorkbook, ""),
		status:       components.NewStatusLog(),
	}
	v.reportOutput.Entry.SetPlaceHolder("default: <processed dir>/Summary-<timestamp>.xlsx")
	return v
}

func (v *View) SetController(controller *Controller) {
	v.controller = controller
	controller.SetPresenter(v)
	v.setupLayout()
}

func (v *View) button(label string, tapped func()) *widget.Button {
	b := widget.NewButton(label, tapped)
	v.actions = append(v.actions, b)
	return b
}

func (v *View) setupLayout() {
	c := v.controller

	single := container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Input Excel", v.singleInput.Row()),
			widget.NewFormItem("Output Dir", v.singleOutput.Row()),
		),
		container.NewCenter(container.NewHBox(
			v.button("Validate", func() { c.ValidateSingle(v.singleInput.Path()) }),
			v.button("Process", func() { c.ProcessSingle(v.singleInput.Path(), v.singleOutput.Path()) }),
		)),
	)

	batch := container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Input Dir", v.batchInput.Row()),
			widget.NewFormItem("Output Dir", v.batchOutput.Row()),
		),
		v.batchDryRun,
		container.NewCenter(v.button("Run Batch", func() {
			c.RunBatch(v.batchInput.Path(), v.batchOutput.Path(), v.batchDryRun.Checked)
		})),
	)

	report := container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Processed Dir", v.reportInput.Row()),
			widget.NewFormItem("Output File", v.reportOutput.Row()),
		),
		container.NewCenter(v.button("Generate Report", func() {
			c.GenerateReport(v.reportInput.Path(), v.reportOutput.Path())
		})),
	)

	tabs := container.NewAppTabs(
		container.NewTabItem("Single", container.NewPadded(single)),
		container.NewTabItem("Batch", container.NewPadded(batch)),
		container.NewTabItem("Report", container.NewPadded(report)),
	)

	v.mainContainer = container.NewBorder(tabs, nil, nil, nil, v.status.GetContainer())
}

func (v *View) AppendLog(line string) {
	v.status.Append(line)
}

// SetBusy disables every action button while a job runs.
func (v *View) SetBusy(busy bool) {
	for _, b := range v.actions {
		if busy {
			b.Disable()
		} else {
			b.Enable()
		}
	}
	v.status.SetBusy(busy)
}

func (v *View) SetProgress(current, total int) {
	v.status.SetProgress(current, total)
}

func (v *View) GetMainContainer() *fyne.Container {
	return v.mainContainer
}

func (v *View) Show() {
	v.window.SetContent(v.mainContainer)
	v.window.Show()
}
