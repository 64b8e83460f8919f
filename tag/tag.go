// Package tag provides the vocabulary of HTML elements known to emit, split into standard elements that hold
// content and void elements that never do.
package tag

// A Kind determines how an element is emitted.
type Kind uint8

const (
	// Standard elements may contain text or children and always have a closing tag.
	Standard Kind = iota

	// Void elements are self-closing and never contain anything.
	Void
)

func (k Kind) String() string {
	switch k {
	case Standard:
		return `standard`
	case Void:
		return `void`
	default:
		return `unknown`
	}
}

// A Tag names an HTML element and its kind.
type Tag struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// IsVoid is true for self-closing elements.
func (t Tag) IsVoid() bool { return t.Kind == Void }

func (t Tag) String() string { return t.Name }

// Lookup finds an element by its name.
func Lookup(name string) (Tag, bool) {
	t, ok := table[name]
	return t, ok
}

// All returns every element in the vocabulary, standard elements first, in the order they are declared.
func All() []Tag {
	seq := make([]Tag, 0, len(standards)+len(voids))
	seq = append(seq, standards...)
	return append(seq, voids...)
}

func standardTag(name string) Tag { return Tag{Name: name, Kind: Standard} }
func voidTag(name string) Tag { return Tag{Name: name, Kind: Void} }

var (
	A          = standardTag(`a`)
	Abbr       = standardTag(`abbr`)
	Address    = standardTag(`address`)
	Article    = standardTag(`article`)
	Aside      = standardTag(`aside`)
	Audio      = standardTag(`audio`)
	B          = standardTag(`b`)
	Bdi        = standardTag(`bdi`)
	Bdo        = standardTag(`bdo`)
	Blockquote = standardTag(`blockquote`)
	Body       = standardTag(`body`)
	Button     = standardTag(`button`)
	Canvas     = standardTag(`canvas`)
	Caption    = standardTag(`caption`)
	Cite       = standardTag(`cite`)
	Code       = standardTag(`code`)
	Colgroup   = standardTag(`colgroup`)
	Data       = standardTag(`data`)
	Datalist   = standardTag(`datalist`)
	Dd         = standardTag(`dd`)
	Del        = standardTag(`del`)
	Details    = standardTag(`details`)
	Dfn        = standardTag(`dfn`)
	Dialog     = standardTag(`dialog`)
	Div        = standardTag(`div`)
	Dl         = standardTag(`dl`)
	Dt         = standardTag(`dt`)
	Em         = standardTag(`em`)
	Fieldset   = standardTag(`fieldset`)
	Figcaption = standardTag(`figcaption`)
	Figure     = standardTag(`figure`)
	Footer     = standardTag(`footer`)
	Form       = standardTag(`form`)
	H1         = standardTag(`h1`)
	H2         = standardTag(`h2`)
	H3         = standardTag(`h3`)
	H4         = standardTag(`h4`)
	H5         = standardTag(`h5`)
	H6         = standardTag(`h6`)
	Head       = standardTag(`head`)
	Header     = standardTag(`header`)
	Hgroup     = standardTag(`hgroup`)
	HTML       = standardTag(`html`)
	I          = standardTag(`i`)
	Iframe     = standardTag(`iframe`)
	Ins        = standardTag(`ins`)
	Kbd        = standardTag(`kbd`)
	Label      = standardTag(`label`)
	Legend     = standardTag(`legend`)
	Li         = standardTag(`li`)
	Main       = standardTag(`main`)
	Map        = standardTag(`map`)
	Mark       = standardTag(`mark`)
	Menu       = standardTag(`menu`)
	Meter      = standardTag(`meter`)
	Nav        = standardTag(`nav`)
	Noscript   = standardTag(`noscript`)
	Object     = standardTag(`object`)
	Ol         = standardTag(`ol`)
	Optgroup   = standardTag(`optgroup`)
	Option     = standardTag(`option`)
	Output     = standardTag(`output`)
	P          = standardTag(`p`)
	Picture    = standardTag(`picture`)
	Pre        = standardTag(`pre`)
	Progress   = standardTag(`progress`)
	Q          = standardTag(`q`)
	Rp         = standardTag(`rp`)
	Rt         = standardTag(`rt`)
	Ruby       = standardTag(`ruby`)
	S          = standardTag(`s`)
	Samp       = standardTag(`samp`)
	Section    = standardTag(`section`)
	Select     = standardTag(`select`)
	Slot       = standardTag(`slot`)
	Small      = standardTag(`small`)
	Span       = standardTag(`span`)
	Strong     = standardTag(`strong`)
	Sub        = standardTag(`sub`)
	Summary    = standardTag(`summary`)
	Sup        = standardTag(`sup`)
	SVG        = standardTag(`svg`)
	Table      = standardTag(`table`)
	Tbody      = standardTag(`tbody`)
	Td         = standardTag(`td`)
	Template   = standardTag(`template`)
	Textarea   = standardTag(`textarea`)
	Tfoot      = standardTag(`tfoot`)
	Th         = standardTag(`th`)
	Thead      = standardTag(`thead`)
	Time       = standardTag(`time`)
	Title      = standardTag(`title`)
	Tr         = standardTag(`tr`)
	U          = standardTag(`u`)
	Ul         = standardTag(`ul`)
	Var        = standardTag(`var`)
	Video      = standardTag(`video`)

	Area   = voidTag(`area`)
	Base   = voidTag(`base`)
	Br     = voidTag(`br`)
	Col    = voidTag(`col`)
	Embed  = voidTag(`embed`)
	Hr     = voidTag(`hr`)
	Img    = voidTag(`img`)
	Input  = voidTag(`input`)
	Link   = voidTag(`link`)
	Meta   = voidTag(`meta`)
	Param  = voidTag(`param`)
	Source = voidTag(`source`)
	Track  = voidTag(`track`)
	Wbr    = voidTag(`wbr`)
)

// script and style are absent on purpose: their bodies are raw text and are emitted by Context.Script and
// Context.Style instead.
var standards = []Tag{
	A, Abbr, Address, Article, Aside, Audio, B, Bdi, Bdo, Blockquote, Body, Button, Canvas, Caption, Cite, Code,
	Colgroup, Data, Datalist, Dd, Del, Details, Dfn, Dialog, Div, Dl, Dt, Em, Fieldset, Figcaption, Figure, Footer,
	Form, H1, H2, H3, H4, H5, H6, Head, Header, Hgroup, HTML, I, Iframe, Ins, Kbd, Label, Legend, Li, Main, Map,
	Mark, Menu, Meter, Nav, Noscript, Object, Ol, Optgroup, Option, Output, P, Picture, Pre, Progress, Q, Rp, Rt,
	Ruby, S, Samp, Section, Select, Slot, Small, Span, Strong, Sub, Summary, Sup, SVG, Table, Tbody, Td, Template,
	Textarea, Tfoot, Th, Thead, Time, Title, Tr, U, Ul, Var, Video,
}

var voids = []Tag{Area, Base, Br, Col, Embed, Hr, Img, Input, Link, Meta, Param, Source, Track, Wbr}

var table = func() map[string]Tag {
	m := make(map[string]Tag, len(standards)+len(voids))
	for _, t := range standards {
		m[t.Name] = t
	}
	for _, t := range voids {
		m[t.Name] = t
	}
	return m
}()
