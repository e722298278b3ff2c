package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/wardrobe/internal/domain"
	"github.com/mmcdole/wardrobe/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Section is one master data collection
type Section int

const (
	SectionCategories Section = iota
	SectionColors
	SectionMaterials
	SectionPatterns
	SectionOccasions
	sectionCount
)

var sectionTitles = [sectionCount]string{"Categories", "Colors", "Materials", "Patterns", "Occasions"}

func (s Section) String() string {
	if s < 0 || s >= sectionCount {
		return "Unknown"
	}
	return sectionTitles[s]
}

// Entry is one row of the browser
type Entry struct {
	Section Section
	ID      int64
	Name    string
	Label   string // what the filter matches, e.g. "Tops / Shirts"
	Detail  string
	Depth   int
}

// entryIndex implements sahilm/fuzzy.Source
type entryIndex []Entry

func (e entryIndex) String(i int) string { return strings.ToLower(e[i].Label) }

func (e entryIndex) Len() int { return len(e) }

// Browser lists the master data one section at a time
type Browser struct {
	section Section
	entries [sectionCount]entryIndex

	// Filter state; filtered is nil when no filter applies
	filterActive bool
	filterQuery  string
	filterInput  textinput.Model
	filtered     []int
	highlights   map[int][]int

	cursor int
	offset int
	height int
}

// NewBrowser creates an empty browser
func NewBrowser() Browser {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter..."
	ti.CharLimit = 40

	return Browser{
		filterInput: ti,
		height:      10,
	}
}

// SetMasterData rebuilds every section. Cursor and filter survive when
// still applicable.
func (b *Browser) SetMasterData(md *domain.MasterData) {
	var entries [sectionCount]entryIndex
	if md != nil {
		for _, parent := range md.ParentCategories() {
			entries[SectionCategories] = append(entries[SectionCategories], Entry{
				Section: SectionCategories,
				ID:      parent.ID,
				Name:    parent.Name,
				Label:   parent.Name,
			})
			for _, child := range md.Subcategories(parent.ID) {
				entries[SectionCategories] = append(entries[SectionCategories], Entry{
					Section: SectionCategories,
					ID:      child.ID,
					Name:    child.Name,
					Label:   parent.Name + " / " + child.Name,
					Depth:   1,
				})
			}
		}
		for _, c := range md.Colors {
			entries[SectionColors] = append(entries[SectionColors], Entry{
				Section: SectionColors, ID: c.ID, Name: c.Name, Label: c.Name, Detail: c.Hex,
			})
		}
		for _, m := range md.Materials {
			entries[SectionMaterials] = append(entries[SectionMaterials], Entry{
				Section: SectionMaterials, ID: m.ID, Name: m.Name, Label: m.Name,
			})
		}
		for _, p := range md.Patterns {
			entries[SectionPatterns] = append(entries[SectionPatterns], Entry{
				Section: SectionPatterns, ID: p.ID, Name: p.Name, Label: p.Name,
			})
		}
		for _, o := range md.Occasions {
			entries[SectionOccasions] = append(entries[SectionOccasions], Entry{
				Section: SectionOccasions, ID: o.ID, Name: o.Name, Label: o.Name,
			})
		}
	}
	b.entries = entries
	b.applyFilter()
	b.clamp()
}

// SetHeight sets the number of visible rows
func (b *Browser) SetHeight(h int) {
	b.height = max(h, 1)
	b.clamp()
}

func (b *Browser) Section() Section { return b.section }

func (b *Browser) NextSection() { b.switchSection((b.section + 1) % sectionCount) }

func (b *Browser) PrevSection() { b.switchSection((b.section + sectionCount - 1) % sectionCount) }

func (b *Browser) switchSection(s Section) {
	b.section = s
	b.ClearFilter()
	b.cursor = 0
	b.offset = 0
}

// Visible returns the rows of the current section after filtering
func (b *Browser) Visible() []Entry {
	all := b.entries[b.section]
	if b.filtered == nil {
		return all
	}
	out := make([]Entry, len(b.filtered))
	for i, idx := range b.filtered {
		out[i] = all[idx]
	}
	return out
}

// Selected returns the entry under the cursor
func (b *Browser) Selected() (Entry, bool) {
	visible := b.Visible()
	if b.cursor < 0 || b.cursor >= len(visible) {
		return Entry{}, false
	}
	return visible[b.cursor], true
}

func (b *Browser) MoveUp() {
	if b.cursor > 0 {
		b.cursor--
	}
	b.clamp()
}

func (b *Browser) MoveDown() {
	if b.cursor < len(b.Visible())-1 {
		b.cursor++
	}
	b.clamp()
}

// clamp keeps the cursor in range and inside the scroll window
func (b *Browser) clamp() {
	n := len(b.Visible())
	if b.cursor >= n {
		b.cursor = max(n-1, 0)
	}
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+b.height {
		b.offset = b.cursor - b.height + 1
	}
	if b.offset > max(n-b.height, 0) {
		b.offset = max(n-b.height, 0)
	}
}

// Filtering reports whether the filter input has focus
func (b *Browser) Filtering() bool { return b.filterActive }

// StartFilter focuses the filter input
func (b *Browser) StartFilter() tea.Cmd {
	b.filterActive = true
	b.filterInput.SetValue(b.filterQuery)
	b.filterInput.CursorEnd()
	b.filterInput.Focus()
	return textinput.Blink
}

// ClearFilter drops the filter and shows every entry
func (b *Browser) ClearFilter() {
	b.filterActive = false
	b.filterQuery = ""
	b.filterInput.SetValue("")
	b.filterInput.Blur()
	b.filtered = nil
	b.highlights = nil
	b.clamp()
}

// UpdateFilter routes input to the filter. Enter keeps the filter,
// esc clears it.
func (b Browser) UpdateFilter(msg tea.Msg) (Browser, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			b.filterActive = false
			b.filterInput.Blur()
			return b, nil
		case "esc":
			b.ClearFilter()
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.filterInput, cmd = b.filterInput.Update(msg)
	if b.filterInput.Value() != b.filterQuery {
		b.filterQuery = b.filterInput.Value()
		b.applyFilter()
		b.cursor = 0
		b.offset = 0
	}
	return b, cmd
}

func (b *Browser) applyFilter() {
	if b.filterQuery == "" {
		b.filtered = nil
		b.highlights = nil
		return
	}

	matches := fuzzy.FindFrom(strings.ToLower(b.filterQuery), b.entries[b.section])

	b.filtered = make([]int, len(matches))
	b.highlights = make(map[int][]int, len(matches))
	for i, match := range matches {
		b.filtered[i] = match.Index
		b.highlights[match.Index] = match.MatchedIndexes
	}
}

// View renders tabs, the optional filter line and the visible rows
func (b Browser) View(st styles.Styles, width int) string {
	var tabs []string
	for s := Section(0); s < sectionCount; s++ {
		title := fmt.Sprintf("%s (%d)", s, len(b.entries[s]))
		if s == b.section {
			tabs = append(tabs, st.ActiveTab.Render(title))
		} else {
			tabs = append(tabs, st.Tab.Render(title))
		}
	}
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, tabs...), ""}

	if b.filterActive {
		lines = append(lines, b.filterInput.View())
	} else if b.filterQuery != "" {
		lines = append(lines, st.FilterPrompt.Render("/")+st.Dim.Render(b.filterQuery))
	}

	visible := b.Visible()
	if len(visible) == 0 {
		if b.filterQuery != "" {
			lines = append(lines, st.Dim.Render("  no matches"))
		} else {
			lines = append(lines, st.Dim.Render("  nothing here yet"))
		}
		return strings.Join(lines, "\n")
	}

	end := min(b.offset+b.height, len(visible))
	for i := b.offset; i < end; i++ {
		lines = append(lines, b.renderRow(st, visible[i], i, width))
	}
	return strings.Join(lines, "\n")
}

func (b Browser) renderRow(st styles.Styles, e Entry, row, width int) string {
	selected := row == b.cursor

	var text string
	if b.filtered != nil {
		text = b.highlight(st, e, b.filtered[row], selected)
	} else {
		text = strings.Repeat("  ", e.Depth) + e.Name
	}
	if e.Detail != "" {
		text += "  " + st.Dim.Render(e.Detail)
	}

	style := st.Item
	if selected {
		style = st.SelectedRow
	}
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(text)
}

// highlight renders the label with fuzzy-matched characters emphasized
func (b Browser) highlight(st styles.Styles, e Entry, idx int, selected bool) string {
	matched := make(map[int]bool)
	for _, i := range b.highlights[idx] {
		matched[i] = true
	}

	var sb strings.Builder
	// MatchedIndexes are byte offsets into the lowercased label
	lower := strings.ToLower(e.Label)
	if len(lower) != len(e.Label) {
		return e.Label
	}
	for i, r := range e.Label {
		if matched[i] && !selected {
			sb.WriteString(st.Match.Render(string(r)))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
