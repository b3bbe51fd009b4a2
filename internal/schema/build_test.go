package schema

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/dicom/vr"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/dictionary"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/sqltype"
)

func sampleAttrs() []dictionary.Attribute {
	return []dictionary.Attribute{
		{Tag: "(0010,0010)", Keyword: "PatientName", VR: vr.PN, VM: "1"},
		{Tag: "(0028,0030)", Keyword: "PixelSpacing", VR: vr.DS, VM: "2"},
		{Tag: "(0008,0008)", Keyword: "ImageType", VR: vr.CS, VM: "2-n"},
		{Tag: "(7FE0,0010)", Keyword: "PixelData", VR: vr.OW, VM: "1"},
		{Tag: "(0008,1140)", Keyword: "ReferencedImageSequence", VR: vr.SQ, VM: "1"},
		{Tag: "(0008,0020)", Keyword: "StudyDate", VR: vr.DA, VM: "bogus"},
		{Tag: "(0028,0010)", Keyword: "Rows", VR: vr.US, VM: "1"},
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	td, skipped, err := Build("dicom.image", sampleAttrs(), sqltype.Native, "id")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if td.FQN != "dicom.image" || td.Policy != sqltype.Native {
		t.Fatalf("Build() FQN=%q Policy=%v", td.FQN, td.Policy)
	}

	want := []struct {
		name, sqlType string
		pk            bool
	}{
		{"id", "BIGINT", true},
		{"patient_name", "VARCHAR(384)", false},
		{"pixel_spacing", "DECIMAL(32)", false},
		{"image_type", "VARCHAR(" + strconv.FormatInt(16*vr.Unbounded, 10) + ")", false},
		{"rows", "SMALLINT", false},
	}
	if len(td.Columns) != len(want) {
		t.Fatalf("Build() columns = %+v, want %d", td.Columns, len(want))
	}
	for i, w := range want {
		c := td.Columns[i]
		if c.Name != w.name || c.SQLType != w.sqlType || c.PrimaryKey != w.pk {
			t.Fatalf("column[%d] = %+v, want name=%s type=%s pk=%v", i, c, w.name, w.sqlType, w.pk)
		}
		if w.pk && c.Nullable {
			t.Fatalf("primary key column is nullable")
		}
		if !w.pk && (!c.Nullable || c.Tag == "") {
			t.Fatalf("attribute column %s: nullable=%v tag=%q", c.Name, c.Nullable, c.Tag)
		}
	}

	if len(skipped) != 3 {
		t.Fatalf("Build() skipped = %v, want 3", skipped)
	}
	if !errors.Is(skipped[0], sqltype.ErrUnsupportedRepresentation) ||
		!errors.Is(skipped[1], sqltype.ErrUnsupportedRepresentation) {
		t.Fatalf("skipped OW/SQ errors = %v, %v", skipped[0].Err, skipped[1].Err)
	}
	if skipped[2].Attribute.Keyword != "StudyDate" || !strings.Contains(skipped[2].Error(), "vm") {
		t.Fatalf("skipped[2] = %v", skipped[2])
	}
}

func TestBuild_StringOnly(t *testing.T) {
	t.Parallel()

	td, _, err := Build("t", sampleAttrs(), sqltype.StringOnly, "")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	got := map[string]string{}
	for _, c := range td.Columns {
		got[c.Name] = c.SQLType
	}
	if got["pixel_spacing"] != "VARCHAR(32)" || got["rows"] != "VARCHAR(6)" {
		t.Fatalf("Build(StringOnly) columns = %v", got)
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	if _, _, err := Build(" ", sampleAttrs(), sqltype.Native, ""); err == nil {
		t.Fatalf("Build(empty name) error = nil, want error")
	}

	onlyBinary := []dictionary.Attribute{{Tag: "(7FE0,0010)", Keyword: "PixelData", VR: vr.OB, VM: "1"}}
	_, skipped, err := Build("t", onlyBinary, sqltype.Native, "id")
	if err == nil {
		t.Fatalf("Build(only binary) error = nil, want error")
	}
	if len(skipped) != 1 {
		t.Fatalf("Build(only binary) skipped = %d, want 1", len(skipped))
	}
}

func TestBuild_DuplicateNames(t *testing.T) {
	t.Parallel()

	attrs := []dictionary.Attribute{
		{Tag: "(0010,0010)", Keyword: "PatientName", VR: vr.PN, VM: "1"},
		{Tag: "(0010,1001)", Keyword: "Patient_Name", VR: vr.PN, VM: "1"},
		{Tag: "(0010,1002)", Keyword: "patient name", VR: vr.PN, VM: "1"},
		{Tag: "(0010,0020)", Keyword: "ID", VR: vr.LO, VM: "1"},
	}
	td, _, err := Build("t", attrs, sqltype.Native, "id")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	var names []string
	for _, c := range td.Columns {
		names = append(names, c.Name)
	}
	want := "id,patient_name,patient_name_2,patient_name_3,id_2"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("Build() names = %s, want %s", got, want)
	}
}

func TestColumnName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attr dictionary.Attribute
		want string
	}{
		{dictionary.Attribute{Keyword: "PatientName"}, "patient_name"},
		{dictionary.Attribute{Keyword: "SOPInstanceUID"}, "sop_instance_uid"},
		{dictionary.Attribute{Keyword: "StudyInstanceUID"}, "study_instance_uid"},
		{dictionary.Attribute{Keyword: "XRayTubeCurrent"}, "x_ray_tube_current"},
		{dictionary.Attribute{Keyword: "Příjmení pacienta"}, "prijmeni_pacienta"},
		{dictionary.Attribute{Keyword: "3DOffset"}, "c_3_d_offset"},
		{dictionary.Attribute{Keyword: "", Tag: "(0009,0010)"}, "tag_00090010"},
		{dictionary.Attribute{Keyword: "!!!", Tag: "(0019,10XX)"}, "tag_001910xx"},
		{dictionary.Attribute{}, "col"},
	}
	for _, tt := range tests {
		if got := ColumnName(tt.attr); got != tt.want {
			t.Fatalf("ColumnName(%+v) = %q, want %q", tt.attr, got, tt.want)
		}
	}
}
