// Package catalog provides the built-in reference rule catalog and loads
// rule catalogs from TOML or YAML files.
package catalog

import (
	"slices"

	"github.com/fyrsmithlabs/triage/internal/knowledge"
)

// BuiltinSource names the built-in catalog in logs and reports.
const BuiltinSource = "builtin"

// Catalog is a set of curated rule definitions plus the base vocabulary whose
// pairs become generated rules.
type Catalog struct {
	Source     string
	Vocabulary []string
	Rules      []knowledge.Definition
}

// Build constructs the knowledge base for the catalog.
func (c Catalog) Build() (*knowledge.KnowledgeBase, error) {
	return knowledge.Build(c.Rules, c.Vocabulary)
}

// DefaultVocabulary returns the 30-term reference vocabulary.
func DefaultVocabulary() []string {
	return slices.Clone(defaultVocabulary)
}

// Default returns the reference catalog. Its curated list intentionally keeps
// the duplicate symptom sets of the reference data; Build reports them as
// shadowed.
func Default() Catalog {
	rules := make([]knowledge.Definition, len(defaultRules))
	for i, d := range defaultRules {
		d.Symptoms = slices.Clone(d.Symptoms)
		rules[i] = d
	}
	return Catalog{
		Source:     BuiltinSource,
		Vocabulary: DefaultVocabulary(),
		Rules:      rules,
	}
}

var defaultVocabulary = []string{
	"abdominal pain", "body aches", "burning urination", "chest pain",
	"chills", "cloudy urine", "cold intolerance", "cough",
	"diarrhea", "dry cough", "ear pain", "fatigue",
	"fever", "frequent urination", "headache", "high fever",
	"irritability", "itching", "joint pain", "lower abdominal pain",
	"muscle pain", "nausea", "rash", "runny nose",
	"shortness of breath", "sore throat", "sneezing", "swollen lymph nodes",
	"vomiting", "weight gain",
}

var defaultRules = []knowledge.Definition{
	{Symptoms: []string{"fever", "cough", "sore throat", "runny nose"}, Diagnosis: "Common Cold 🤧", Consult: "👨‍⚕️ General Physician"},
	{Symptoms: []string{"fever", "high fever", "chills", "body aches"}, Diagnosis: "Flu (Influenza) 🤒", Consult: "👨‍⚕️ General Physician"},
	{Symptoms: []string{"fever", "rash", "joint pain"}, Diagnosis: "Dengue Fever 🦟", Consult: "👨‍⚕️ General Physician"},
	{Symptoms: []string{"fever", "cough"}, Diagnosis: "Viral Infection 🦠", Consult: "👨‍⚕️ General Physician"},
	{Symptoms: []string{"fever"}, Diagnosis: "Isolated Fever 🌡️", Consult: "👨‍⚕️ General Physician"},
	{Symptoms: []string{"fever", "cough", "sore throat", "runny nose", "sneezing", "nasal congestion", "mild headache", "fatigue"}, Diagnosis: "Common Cold", Consult: "General Physician"},
	{Symptoms: []string{"fever", "high fever", "chills", "dry cough", "shortness of breath", "fatigue", "body aches", "headache"}, Diagnosis: "Flu (Influenza)", Consult: "General Physician"},
	{Symptoms: []string{"headache", "nausea", "vomiting", "sensitivity to light", "sensitivity to sound", "visual disturbances", "pulsating pain"}, Diagnosis: "Migraine", Consult: "Neurologist"},
	{Symptoms: []string{"skin rash", "itching", "swelling", "hives", "redness", "watery eyes"}, Diagnosis: "Allergic Reaction", Consult: "Allergist or Dermatologist"},
	{Symptoms: []string{"stomach pain", "abdominal cramps", "nausea", "vomiting", "diarrhea", "fever"}, Diagnosis: "Food Poisoning", Consult: "Gastroenterologist"},
	{Symptoms: []string{"fever", "body aches", "chills", "weakness"}, Diagnosis: "General Viral Infection", Consult: "General Physician"},
	{Symptoms: []string{"fatigue", "difficulty concentrating", "insomnia", "irritability", "muscle tension"}, Diagnosis: "Stress or Sleep Deprivation", Consult: "Psychologist or General Physician"},
	{Symptoms: []string{"fever", "dry cough", "tiredness", "loss of taste", "loss of smell", "shortness of breath", "sore throat"}, Diagnosis: "COVID‑19", Consult: "General Physician or Pulmonologist"},
	{Symptoms: []string{"fever", "severe headache", "pain behind eyes", "joint pain", "muscle pain", "rash", "nausea"}, Diagnosis: "Dengue Fever", Consult: "General Physician"},
	{Symptoms: []string{"fever", "chills", "sweating", "headache", "nausea", "vomiting", "muscle pain"}, Diagnosis: "Malaria", Consult: "General Physician"},
	{Symptoms: []string{"fever", "abdominal pain", "headache", "constipation", "poor appetite", "rash"}, Diagnosis: "Typhoid Fever", Consult: "General Physician"},
	{Symptoms: []string{"fever", "fatigue", "itching", "blister rash", "loss of appetite"}, Diagnosis: "Chickenpox", Consult: "General Physician or Dermatologist"},
	{Symptoms: []string{"fever", "cough"}, Diagnosis: "Possible Viral Respiratory Infection", Consult: "General Physician"},
	{Symptoms: []string{"fever", "rash"}, Diagnosis: "Viral Exanthem (e.g., Dengue, Measles)", Consult: "Dermatologist or General Physician"},
	{Symptoms: []string{"headache", "fever"}, Diagnosis: "Possible Flu or Meningitis", Consult: "General Physician or Neurologist"},
	{Symptoms: []string{"nausea", "vomiting"}, Diagnosis: "Gastro-intestinal Upset", Consult: "Gastroenterologist"},
	{Symptoms: []string{"chills", "sweating"}, Diagnosis: "Possible Malaria or Infection", Consult: "General Physician"},
	{Symptoms: []string{"joint pain", "muscle pain"}, Diagnosis: "Possible Viral Infection (e.g., Chikungunya)", Consult: "General Physician"},
	{Symptoms: []string{"loss of taste", "loss of smell"}, Diagnosis: "Possible Early COVID‑19", Consult: "General Physician or ENT Specialist"},
	{Symptoms: []string{"fever"}, Diagnosis: "Isolated Fever – monitor closely", Consult: "General Physician"},
	{Symptoms: []string{"cough"}, Diagnosis: "Isolated Cough – possible irritation or early cold", Consult: "General Physician"},
	{Symptoms: []string{"headache"}, Diagnosis: "Tension Headache", Consult: "General Physician or Neurologist"},
	{Symptoms: []string{"skin rash"}, Diagnosis: "Possible Allergy or Skin Infection", Consult: "Dermatologist"},
	{Symptoms: []string{"stomach pain"}, Diagnosis: "Gastric Irritation or Indigestion", Consult: "Gastroenterologist"},
	{Symptoms: []string{"fatigue"}, Diagnosis: "General Fatigue – may be stress, anemia, or poor sleep", Consult: "General Physician"},
	{Symptoms: []string{"diarrhea"}, Diagnosis: "Acute Gastroenteritis", Consult: "Gastroenterologist"},
	{Symptoms: []string{"abdominal pain"}, Diagnosis: "Gastric Irritation or Indigestion", Consult: "Gastroenterologist"},
	{Symptoms: []string{"body aches"}, Diagnosis: "Combination of body aches – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"burning urination"}, Diagnosis: "Combination of burning urination – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"chest pain"}, Diagnosis: "Combination of chest pain – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"chills"}, Diagnosis: "Combination of chills – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"cloudy urine"}, Diagnosis: "Combination of cloudy urine – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"cold intolerance"}, Diagnosis: "Combination of cold intolerance – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"cough"}, Diagnosis: "Isolated Cough – possible irritation or early cold", Consult: "General Physician"},
	{Symptoms: []string{"diarrhea"}, Diagnosis: "Acute Gastroenteritis", Consult: "Gastroenterologist"},
	{Symptoms: []string{"dry cough"}, Diagnosis: "Combination of dry cough – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"ear pain"}, Diagnosis: "Combination of ear pain – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"fatigue"}, Diagnosis: "General Fatigue – may be stress, anemia, or poor sleep", Consult: "General Physician"},
	{Symptoms: []string{"fever"}, Diagnosis: "Isolated Fever – monitor closely", Consult: "General Physician"},
	{Symptoms: []string{"frequent urination"}, Diagnosis: "Combination of frequent urination – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"headache"}, Diagnosis: "Tension Headache", Consult: "General Physician or Neurologist"},
	{Symptoms: []string{"high fever"}, Diagnosis: "Combination of high fever – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"irritability"}, Diagnosis: "Combination of irritability – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"itching"}, Diagnosis: "Combination of itching – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"joint pain"}, Diagnosis: "Combination of joint pain – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"lower abdominal pain"}, Diagnosis: "Combination of lower abdominal pain – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"muscle pain"}, Diagnosis: "Combination of muscle pain – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"nausea"}, Diagnosis: "Combination of nausea – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"rash"}, Diagnosis: "Possible Allergy or Skin Infection", Consult: "Dermatologist"},
	{Symptoms: []string{"runny nose"}, Diagnosis: "Combination of runny nose – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"shortness of breath"}, Diagnosis: "Combination of shortness of breath – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"sore throat"}, Diagnosis: "Combination of sore throat – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"sneezing"}, Diagnosis: "Combination of sneezing – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"swollen lymph nodes"}, Diagnosis: "Combination of swollen lymph nodes – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"vomiting"}, Diagnosis: "Combination of vomiting – further evaluation 🩺", Consult: "General Physician"},
	{Symptoms: []string{"weight gain"}, Diagnosis: "Combination of weight gain – further evaluation 🩺", Consult: "General Physician"},
}
