package onesky

import "fmt"

// FileFormat is a string file format accepted by the files endpoint.
type FileFormat string

const (
	FormatIOSStrings        FileFormat = "IOS_STRINGS"
	FormatIOSStringsdictXML FileFormat = "IOS_STRINGSDICT_XML"
	FormatGNUPO             FileFormat = "GNU_PO"
	FormatAndroidXML        FileFormat = "ANDROID_XML"
	FormatAndroidJSON       FileFormat = "ANDROID_JSON"
	FormatJavaProperties    FileFormat = "JAVA_PROPERTIES"
	FormatRubyYML           FileFormat = "RUBY_YML"
	FormatRubyYAML          FileFormat = "RUBY_YAML"
	FormatFlashXML          FileFormat = "FLASH_XML"
	FormatGNUPOT            FileFormat = "GNU_POT"
	FormatRRC               FileFormat = "RRC"
	FormatRESX              FileFormat = "RESX"
	FormatHierarchicalJSON  FileFormat = "HIERARCHICAL_JSON"
	FormatPHP               FileFormat = "PHP"
	FormatPHPShortArray     FileFormat = "PHP_SHORT_ARRAY"
	FormatPHPVariables      FileFormat = "PHP_VARIABLES"
	FormatHTML              FileFormat = "HTML"
	FormatRESW              FileFormat = "RESW"
	FormatYML               FileFormat = "YML"
	FormatYAML              FileFormat = "YAML"
	FormatAdempiereXML      FileFormat = "ADEMPIERE_XML"
	FormatIdempiereXML      FileFormat = "IDEMPIERE_XML"
	FormatQtTSXML           FileFormat = "QT_TS_XML"
	FormatXLIFF             FileFormat = "XLIFF"
	FormatRESJSON           FileFormat = "RESJSON"
	FormatTMX               FileFormat = "TMX"
	FormatL10N              FileFormat = "L10N"
	FormatINI               FileFormat = "INI"
	FormatRequireJS         FileFormat = "REQUIREJS"
)

var fileFormats = map[FileFormat]struct{}{
	FormatIOSStrings: {}, FormatIOSStringsdictXML: {}, FormatGNUPO: {}, FormatAndroidXML: {},
	FormatAndroidJSON: {}, FormatJavaProperties: {}, FormatRubyYML: {}, FormatRubyYAML: {},
	FormatFlashXML: {}, FormatGNUPOT: {}, FormatRRC: {}, FormatRESX: {},
	FormatHierarchicalJSON: {}, FormatPHP: {}, FormatPHPShortArray: {}, FormatPHPVariables: {},
	FormatHTML: {}, FormatRESW: {}, FormatYML: {}, FormatYAML: {},
	FormatAdempiereXML: {}, FormatIdempiereXML: {}, FormatQtTSXML: {}, FormatXLIFF: {},
	FormatRESJSON: {}, FormatTMX: {}, FormatL10N: {}, FormatINI: {},
	FormatRequireJS: {},
}

// Valid reports whether f is a known format.
func (f FileFormat) Valid() bool {
	_, ok := fileFormats[f]
	return ok
}

// ParseFileFormat returns the format named s.
func ParseFileFormat(s string) (FileFormat, error) {
	f := FileFormat(s)
	if !f.Valid() {
		return "", fmt.Errorf("unknown file format %q", s)
	}
	return f, nil
}

// ImportStatus is the state of a file import task.
type ImportStatus string

const (
	// ImportStatusAll selects tasks in any state when listing.
	ImportStatusAll        ImportStatus = "all"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusInProgress ImportStatus = "in-progress"
	ImportStatusFailed     ImportStatus = "failed"
)

// ParseImportStatus returns the status named s.
func ParseImportStatus(s string) (ImportStatus, error) {
	switch st := ImportStatus(s); st {
	case ImportStatusAll, ImportStatusCompleted, ImportStatusInProgress, ImportStatusFailed:
		return st, nil
	}
	return "", fmt.Errorf("unknown import status %q", s)
}
