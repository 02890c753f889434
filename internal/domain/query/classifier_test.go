package query

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		query string
		want  []string
	}{
		{"What does my LDL cholesterol mean?", []string{"cardiovascular"}},
		{"Is my HbA1c in the diabetes range?", []string{"diabetes", "laboratory"}},
		{"Explain my lab results", []string{"laboratory"}},
		{"What treatment options exist?", []string{"treatment"}},
		{"Is my blood sugar too high?", []string{"diabetes"}},
		{"How is the weather today?", nil},
		{"CHOLESTEROL AND GLUCOSE", []string{"cardiovascular", "diabetes"}},
	}
	for _, tc := range cases {
		if got := Classify(tc.query); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Classify(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func TestIsAbnormalFindingQuery(t *testing.T) {
	if !isAbnormalFindingQuery("What do my abnormal findings suggest?") {
		t.Error("abnormal findings query not detected")
	}
	if !isAbnormalFindingQuery("Do I have HFpEF?") {
		t.Error("HFpEF query not detected")
	}
	if isAbnormalFindingQuery("What is my cholesterol?") {
		t.Error("plain value query misdetected as abnormal-finding query")
	}
}

func TestIsMedicationQuery(t *testing.T) {
	if !isMedicationQuery("What medications am I taking?") {
		t.Error("medication query not detected")
	}
	if !isMedicationQuery("Any new prescriptions?") {
		t.Error("prescription query not detected")
	}
	if isMedicationQuery("What is my BMI?") {
		t.Error("BMI query misdetected as medication query")
	}
}
