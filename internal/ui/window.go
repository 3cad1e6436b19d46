package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/basel-ax/imagegen/internal/config"
	"github.com/basel-ax/imagegen/internal/domain"
	"github.com/basel-ax/imagegen/internal/history"
	"github.com/basel-ax/imagegen/internal/imgedit"
	"github.com/basel-ax/imagegen/internal/service"
)

const billingHelpURL = "https://aistudio.google.com/?model=imagen-3"

var (
	lensOptions  = []string{"None", "Macro lens", "Fisheye", "Wide-angle", "Telephoto", "Telephoto zoom"}
	focalOptions = []string{"None", "10mm", "24mm", "35mm", "50mm", "85mm", "100mm", "200mm", "60-105mm"}
)

// MainWindow owns all widget state. Widgets are only mutated on the Fyne UI
// thread; background work posts results back through fyne.Do.
type MainWindow struct {
	win fyne.Window
	svc *service.GenerationService
	hst *history.Store

	prompt  *widget.SelectEntry
	aspect  *widget.Select
	lens    *widget.Select
	focal   *widget.Select
	highRes *widget.Check

	generateBtn *widget.Button
	saveBtn     *widget.Button
	progress    *widget.ProgressBarInfinite
	status      *widget.Label

	image *canvas.Image

	filter     *widget.Select
	preset     *widget.Select
	brightness *widget.Slider
	contrast   *widget.Slider
	saturation *widget.Slider
	vignette   *widget.Slider
	sharpness  *widget.Slider
	applyBtn   *widget.Button
	resetBtn   *widget.Button
	undoBtn    *widget.Button
	redoBtn    *widget.Button

	// original holds the last generated (or applied) full-resolution bytes,
	// edited holds original with the current settings applied.
	original []byte
	edited   []byte

	undoStack [][]byte
	redoStack [][]byte

	// epoch increments whenever original changes; preview renders started
	// against an older original are discarded when they land.
	epoch int

	// one preview render in flight at a time; further changes are coalesced
	previewRunning bool
	previewQueued  bool
	suspendPreview bool
}

// NewMainWindow builds the main window and wires all controls.
func NewMainWindow(a fyne.App, cfg *config.Config, svc *service.GenerationService, hst *history.Store) *MainWindow {
	m := &MainWindow{
		win: a.NewWindow("Gemini ImageGen"),
		svc: svc,
		hst: hst,
	}
	m.win.Resize(fyne.NewSize(1000, 700))

	m.prompt = widget.NewSelectEntry(hst.Prompts())
	m.prompt.SetPlaceHolder("Describe the image to generate...")
	m.prompt.OnSubmitted = func(string) { m.onGenerate() }

	m.aspect = widget.NewSelect(domain.AspectRatios, nil)
	m.aspect.SetSelected(cfg.DefaultAspectRatio)
	m.lens = widget.NewSelect(lensOptions, nil)
	m.lens.SetSelected("None")
	m.focal = widget.NewSelect(focalOptions, nil)
	m.focal.SetSelected("None")
	m.highRes = widget.NewCheck("High-res", nil)

	m.generateBtn = widget.NewButton("Generate", m.onGenerate)

	m.image = canvas.NewImageFromResource(nil)
	m.image.FillMode = canvas.ImageFillContain
	m.image.SetMinSize(fyne.NewSize(400, 300))

	m.filter = widget.NewSelect(imgedit.Filters, func(string) { m.schedulePreview() })
	m.filter.SetSelected(imgedit.FilterNone)
	m.preset = widget.NewSelect(presetOptions(), func(name string) { m.applyPreset(name) })
	m.preset.SetSelected("Custom")

	m.brightness = newAdjustmentSlider(0.5, 2.0, 1.0, m.schedulePreview)
	m.contrast = newAdjustmentSlider(0.5, 2.0, 1.0, m.schedulePreview)
	m.saturation = newAdjustmentSlider(0, 2.0, 1.0, m.schedulePreview)
	m.vignette = newAdjustmentSlider(0, 1.0, 0, m.schedulePreview)
	m.sharpness = newAdjustmentSlider(0, 2.0, 1.0, m.schedulePreview)

	m.applyBtn = widget.NewButton("Apply Edits", m.onApplyEdits)
	m.resetBtn = widget.NewButton("Reset", m.onResetEdits)
	m.undoBtn = widget.NewButton("Undo", m.onUndo)
	m.redoBtn = widget.NewButton("Redo", m.onRedo)

	m.saveBtn = widget.NewButton("Save as PNG...", m.onSave)
	m.progress = widget.NewProgressBarInfinite()
	m.progress.Hide()
	m.status = widget.NewLabel("")

	m.setEditControlsEnabled(false)
	m.saveBtn.Disable()
	m.updateUndoRedoButtons()

	m.win.SetContent(m.buildLayout())
	return m
}

// Show displays the window; the caller runs the application loop.
func (m *MainWindow) Show() {
	m.win.Show()
}

func (m *MainWindow) buildLayout() fyne.CanvasObject {
	promptRow := container.NewBorder(nil, nil, nil,
		container.NewHBox(
			widget.NewLabel("Lens:"), m.lens,
			widget.NewLabel("Focal:"), m.focal,
			widget.NewLabel("Aspect:"), m.aspect,
			m.highRes,
			m.generateBtn,
		),
		m.prompt,
	)

	editRow := container.NewVBox(
		container.NewHBox(
			widget.NewLabel("Filter:"), m.filter,
			widget.NewLabel("Preset:"), m.preset,
			m.applyBtn, m.resetBtn, m.undoBtn, m.redoBtn,
		),
		container.NewGridWithColumns(6,
			widget.NewLabel("Brightness"), m.brightness,
			widget.NewLabel("Contrast"), m.contrast,
			widget.NewLabel("Saturation"), m.saturation,
		),
		container.NewGridWithColumns(6,
			widget.NewLabel("Vignette"), m.vignette,
			widget.NewLabel("Sharpness"), m.sharpness,
			widget.NewLabel(""), widget.NewLabel(""),
		),
	)

	bottomRow := container.NewHBox(m.saveBtn, m.progress, m.status)

	return container.NewBorder(
		promptRow,
		container.NewVBox(editRow, bottomRow),
		nil, nil,
		m.image,
	)
}

func newAdjustmentSlider(min, max, value float64, onChange func()) *widget.Slider {
	s := widget.NewSlider(min, max)
	s.Step = 0.05
	s.Value = value
	s.OnChangeEnded = func(float64) { onChange() }
	return s
}

func presetOptions() []string {
	return []string{"Custom", "Cinematic", "Filmic", "Vibrant", "Soft", "High Contrast"}
}

// onGenerate starts one generation cycle. The trigger is disabled until the
// result arrives, so at most one request is in flight.
func (m *MainWindow) onGenerate() {
	promptText := strings.TrimSpace(m.prompt.Text)
	if promptText == "" {
		dialog.ShowInformation("No prompt", "Please enter a prompt to generate an image.", m.win)
		return
	}

	req := domain.GenerationRequest{
		Prompt:      promptText,
		AspectRatio: m.aspect.Selected,
		Lens:        selectValue(m.lens),
		FocalLength: selectValue(m.focal),
		HighRes:     m.highRes.Checked,
	}

	m.setGenerating(true)

	go func() {
		img, err := m.svc.Generate(context.Background(), req)
		fyne.Do(func() {
			m.finishGeneration(promptText, img, err)
		})
	}()
}

// finishGeneration handles a completed generation on the UI thread.
func (m *MainWindow) finishGeneration(promptText string, img *domain.GeneratedImage, err error) {
	m.setGenerating(false)
	if err != nil {
		m.onGenerateError(err)
		return
	}
	m.showGenerated(promptText, img)
}

func (m *MainWindow) setGenerating(generating bool) {
	if generating {
		m.generateBtn.Disable()
		m.saveBtn.Disable()
		m.setEditControlsEnabled(false)
		m.status.SetText("Generating...")
		m.progress.Show()
		m.progress.Start()
		return
	}
	m.generateBtn.Enable()
	m.progress.Stop()
	m.progress.Hide()
}

func (m *MainWindow) showGenerated(promptText string, img *domain.GeneratedImage) {
	m.epoch++
	m.original = img.Data
	m.edited = img.Data
	m.undoStack = nil
	m.redoStack = nil

	m.resetEditControls()
	m.setImage(img.Data)
	m.setEditControlsEnabled(true)
	m.saveBtn.Enable()
	m.updateUndoRedoButtons()
	m.status.SetText("Done")

	if err := m.hst.Add(promptText); err != nil {
		log.Printf("Failed to save prompt history: %v", err)
	}
	m.prompt.SetOptions(m.hst.Prompts())
}

func (m *MainWindow) onGenerateError(err error) {
	m.saveBtn.Disable()
	if m.edited != nil {
		m.saveBtn.Enable()
		m.setEditControlsEnabled(true)
	}

	if errors.Is(err, domain.ErrBillingRequired) {
		m.status.SetText("Error: billing required")
		dialog.ShowConfirm("Billing required",
			"Imagen image generation requires a billed Google account.\nOpen AI Studio billing instructions?",
			func(open bool) {
				if !open {
					return
				}
				u, parseErr := url.Parse(billingHelpURL)
				if parseErr != nil {
					return
				}
				if openErr := fyne.CurrentApp().OpenURL(u); openErr != nil {
					log.Printf("Failed to open billing help: %v", openErr)
				}
			}, m.win)
		return
	}

	m.status.SetText("Error: " + err.Error())
	dialog.ShowError(err, m.win)
}

// setImage swaps the displayed bytes. ImageFillContain keeps the aspect
// ratio and rescales with the window.
func (m *MainWindow) setImage(data []byte) {
	m.image.Resource = fyne.NewStaticResource("generated.png", data)
	m.image.Refresh()
}

func (m *MainWindow) setEditControlsEnabled(enabled bool) {
	widgets := []fyne.Disableable{
		m.filter, m.preset,
		m.brightness, m.contrast, m.saturation, m.vignette, m.sharpness,
		m.applyBtn, m.resetBtn,
	}
	for _, w := range widgets {
		if enabled {
			w.Enable()
		} else {
			w.Disable()
		}
	}
}

func (m *MainWindow) currentSettings() imgedit.Settings {
	return imgedit.Settings{
		Filter:     m.filter.Selected,
		Brightness: m.brightness.Value,
		Contrast:   m.contrast.Value,
		Saturation: m.saturation.Value,
		Vignette:   m.vignette.Value,
		Sharpness:  m.sharpness.Value,
	}
}

// schedulePreview renders the current settings against the original bytes in
// the background. Only one render runs at a time; changes made meanwhile
// trigger a single follow-up render.
func (m *MainWindow) schedulePreview() {
	if m.original == nil || m.suspendPreview {
		return
	}
	if m.previewRunning {
		m.previewQueued = true
		return
	}
	m.previewRunning = true

	settings := m.currentSettings()
	src := m.original
	epoch := m.epoch

	go func() {
		out, err := imgedit.Apply(src, settings)
		fyne.Do(func() {
			m.finishPreview(epoch, out, err)
		})
	}()
}

// finishPreview handles a completed preview render on the UI thread. Results
// rendered against an original that has been replaced since are dropped.
func (m *MainWindow) finishPreview(epoch int, out []byte, err error) {
	m.previewRunning = false
	if epoch != m.epoch {
		m.previewQueued = false
		return
	}
	if err != nil {
		m.status.SetText("Edit preview failed: " + err.Error())
	} else {
		m.edited = out
		m.setImage(out)
	}
	if m.previewQueued {
		m.previewQueued = false
		m.schedulePreview()
	}
}

func (m *MainWindow) applyPreset(name string) {
	settings, ok := imgedit.Presets[name]
	if !ok {
		return
	}

	m.suspendPreview = true
	m.filter.SetSelected(settings.Filter)
	m.brightness.SetValue(settings.Brightness)
	m.contrast.SetValue(settings.Contrast)
	m.saturation.SetValue(settings.Saturation)
	m.vignette.SetValue(settings.Vignette)
	m.sharpness.SetValue(settings.Sharpness)
	m.suspendPreview = false

	m.schedulePreview()
}

// onApplyEdits makes the current edit permanent: the edited bytes become the
// new original and the previous original goes on the undo stack.
func (m *MainWindow) onApplyEdits() {
	if m.edited == nil || m.original == nil {
		return
	}
	m.undoStack = append(m.undoStack, m.original)
	m.redoStack = nil
	m.epoch++
	m.original = m.edited
	m.updateUndoRedoButtons()
	m.status.SetText("Edits applied to the image")
}

func (m *MainWindow) onResetEdits() {
	if m.original == nil {
		return
	}
	m.resetEditControls()
	m.edited = m.original
	m.setImage(m.original)
}

func (m *MainWindow) resetEditControls() {
	neutral := imgedit.Neutral()
	m.suspendPreview = true
	m.filter.SetSelected(neutral.Filter)
	m.preset.SetSelected("Custom")
	m.brightness.SetValue(neutral.Brightness)
	m.contrast.SetValue(neutral.Contrast)
	m.saturation.SetValue(neutral.Saturation)
	m.vignette.SetValue(neutral.Vignette)
	m.sharpness.SetValue(neutral.Sharpness)
	m.suspendPreview = false
}

func (m *MainWindow) onUndo() {
	if len(m.undoStack) == 0 {
		return
	}
	m.redoStack = append(m.redoStack, m.original)
	m.epoch++
	m.original = m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.edited = m.original
	m.setImage(m.original)
	m.updateUndoRedoButtons()
}

func (m *MainWindow) onRedo() {
	if len(m.redoStack) == 0 {
		return
	}
	m.undoStack = append(m.undoStack, m.original)
	m.epoch++
	m.original = m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.edited = m.original
	m.setImage(m.original)
	m.updateUndoRedoButtons()
}

func (m *MainWindow) updateUndoRedoButtons() {
	if len(m.undoStack) > 0 {
		m.undoBtn.Enable()
	} else {
		m.undoBtn.Disable()
	}
	if len(m.redoStack) > 0 {
		m.redoBtn.Enable()
	} else {
		m.redoBtn.Disable()
	}
}

// onSave writes the displayed image as PNG to a user-chosen path. Failures
// are reported in a dialog; the displayed image is left untouched.
func (m *MainWindow) onSave() {
	if m.edited == nil {
		return
	}
	data := m.edited

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, m.win)
			return
		}
		if writer == nil {
			return // cancelled
		}
		defer writer.Close()

		pngData, err := imgedit.ToPNG(data)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to encode PNG: %w", err), m.win)
			return
		}
		if _, err := writer.Write(pngData); err != nil {
			m.status.SetText("Save failed")
			dialog.ShowError(fmt.Errorf("failed to save image: %w", err), m.win)
			return
		}
		m.status.SetText("Saved to " + writer.URI().Path())
	}, m.win)

	d.SetFileName("image.png")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	d.Show()
}

func selectValue(s *widget.Select) string {
	if s.Selected == "None" {
		return ""
	}
	return s.Selected
}
