package fts

import (
	"strings"

	"github.com/openmedex/ftsmeta/internal/errs"
)

// Family selects the parsing strategy for a CMS source family.
type Family int

const (
	FamilyMedicare Family = iota
	FamilyMedicaid
)

func (f Family) String() string {
	switch f {
	case FamilyMedicare:
		return "medicare"
	case FamilyMedicaid:
		return "medicaid"
	default:
		return "unknown"
	}
}

// Synthetic column names shared by both families.
const (
	// FileColumn carries the RESDAC source file name for provenance.
	FileColumn = "FILE"
	// RecordColumn is the auto-incremented record id.
	RecordColumn = "RECORD"
)

// Metadata keys as they literally appear in FTS headers.
const (
	MetaRecordLength = "Exact File Record Length (Bytes in Variable Block)"
	MetaFileSize     = "Exact File Size in Bytes with 512 Blocksize"
	MetaRows         = "Exact File Quantity (Rows)"
)

// KeyColumn is one semantic key with the physical spellings CMS uses
// for it across extract vintages.
type KeyColumn struct {
	Name     string
	Synonyms []string
}

// matches reports whether the physical column name denotes this key.
// FTS files are inconsistent about case, so matching is case-folded.
func (k KeyColumn) matches(column string) bool {
	u := strings.ToUpper(column)
	if u == k.Name {
		return true
	}
	for _, s := range k.Synonyms {
		if u == s {
			return true
		}
	}
	return false
}

// MedicaidTable fixes the key and index sets of one medicaid sub-type.
type MedicaidTable struct {
	// PrimaryKey in constraint order.
	PrimaryKey []string
	// Indices specific to this sub-type, added to the medicaid-wide set.
	Indices []string
	// AddRecord injects the auto-increment record column.
	AddRecord bool
}

// Conventions carries the CMS naming and key-detection rules the parser
// needs. Passing them in keeps the parse operations pure; tests swap in
// reduced sets.
type Conventions struct {
	// MedicareFileTypes are the known medicare table types, matched as
	// file-name prefixes.
	MedicareFileTypes []string
	// MedicarePattern / MedicaidPattern are discovery glob templates;
	// the single %s receives the table type.
	MedicarePattern string
	MedicaidPattern string

	// KeyColumns lists the medicare semantic keys in the order the
	// composite primary index is built.
	KeyColumns []KeyColumn
	// RequiredKeys must resolve for every medicare table and always
	// join the composite index.
	RequiredKeys []string
	// StrictKeyPrefix marks table types that must resolve every key;
	// for those, StrictIndexKeys also join the composite index.
	StrictKeyPrefix string
	StrictIndexKeys []string

	// CommonIndices are indexed on every table of either family.
	CommonIndices []string
	// MedicaidIndices are indexed on every medicaid table.
	MedicaidIndices []string
	// MedicaidTables maps sub-type token to its key and index sets.
	MedicaidTables map[string]MedicaidTable
}

// DefaultConventions returns the rules for current CMS extracts.
func DefaultConventions() Conventions {
	return Conventions{
		MedicareFileTypes: []string{"mbsf_abcd", "mbsf_ab", "mbsf_d", "medpar"},
		MedicarePattern:   "**/%s_*.fts",
		MedicaidPattern:   "**/maxdata_%s_*.fts",

		KeyColumns: []KeyColumn{
			{Name: "BENE_ID"},
			{Name: "STATE", Synonyms: []string{"STATE_CD"}},
			{Name: "YEAR", Synonyms: []string{"RFRNC_YR", "MEDPAR_YR_NUM"}},
			{Name: "ZIP", Synonyms: []string{"BENE_ZIP", "ZIP_CD"}},
		},
		RequiredKeys:    []string{"BENE_ID", "YEAR"},
		StrictKeyPrefix: "mbsf_ab",
		StrictIndexKeys: []string{"STATE"},

		CommonIndices:   []string{"BENE_ID", FileColumn},
		MedicaidIndices: []string{"EL_DOB", "EL_SEX_CD", "EL_DOD", "EL_RACE_ETHNCY_CD"},
		MedicaidTables: map[string]MedicaidTable{
			"ps": {
				PrimaryKey: []string{"MSIS_ID", "STATE_CD", "MAX_YR_DT"},
				Indices:    []string{"MSIS_ID", "STATE_CD", "MAX_YR_DT", "EL_AGE_GRP_CD"},
			},
			"ip": {
				PrimaryKey: []string{FileColumn, RecordColumn},
				Indices:    []string{"MSIS_ID", "STATE_CD", "YR_NUM", RecordColumn},
				AddRecord:  true,
			},
		},
	}
}

// MedicareFileType resolves the table type of a medicare file by
// name prefix.
func (c Conventions) MedicareFileType(fileName string) (string, error) {
	for _, t := range c.MedicareFileTypes {
		if strings.HasPrefix(fileName, t) {
			return t, nil
		}
	}
	return "", errs.New(errs.ErrKindUnsupportedFileType,
		"unsupported medicare file type: "+fileName)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
