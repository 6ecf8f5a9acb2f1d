package types

// Mode selects which conversion runs.
type Mode string

const (
	// ModeFT70 rewrites a RepeaterBook sheet into the RT Systems FT-70D layout.
	ModeFT70 Mode = "ft70"
	// ModeAnytone builds an Anytone CPS sheet from an FT70-layout sheet.
	ModeAnytone Mode = "anytone"
)

func (m Mode) String() string {
	switch m {
	case ModeFT70:
		return "RepeaterBook → FT-70D"
	case ModeAnytone:
		return "FT-70D → Anytone"
	}
	return string(m)
}

type ConversionResult struct {
	InputFile      string
	OutputFile     string
	Mode           Mode
	SourceSheet    string
	TargetSheet    string
	Headers        []string
	ColumnsAdded   []string
	ColumnsRemoved []string
	RowsProcessed  int
}

type SheetPreview struct {
	Name         string
	Headers      []string
	Rows         int
	RepeaterBook bool
}

type FileData struct {
	Path   string
	Sheets []SheetPreview
}
