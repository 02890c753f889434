package knowledge

import (
	"context"
	"fmt"
)

// CorpusSource describes one seedable block of reference material.
type CorpusSource struct {
	Source   string
	Category string
	Content  string
}

// BuiltinCorpus returns the reference material shipped with the service:
// clinical guideline summaries for the categories the query classifier
// recognizes, plus cardiac diagnostic criteria.
func BuiltinCorpus() []CorpusSource {
	return []CorpusSource{
		{Source: "Medical Guidelines - Cardiovascular", Category: "cardiovascular", Content: corpusCardiovascular},
		{Source: "Medical Guidelines - Diabetes", Category: "diabetes", Content: corpusDiabetes},
		{Source: "Medical Guidelines - Laboratory", Category: "laboratory", Content: corpusLaboratory},
		{Source: "Medical Guidelines - Treatment", Category: "treatment", Content: corpusTreatment},
		{Source: "Clinical Guidelines 2024", Category: "diagnostic_criteria", Content: corpusDiagnosticCriteria},
	}
}

// Seed stores every built-in corpus source. Safe to re-run: each source
// replaces its previous entries.
func (s *Service) Seed(ctx context.Context) (int, error) {
	total := 0
	for _, src := range BuiltinCorpus() {
		n, err := s.Store(ctx, src.Content, src.Source, src.Category)
		if err != nil {
			return total, fmt.Errorf("seed %q: %w", src.Source, err)
		}
		total += n
	}
	return total, nil
}

const corpusCardiovascular = `
# Cardiovascular Health and Heart Disease

## Understanding Cholesterol and Lipid Profiles

### Low-Density Lipoprotein (LDL) Cholesterol
LDL cholesterol is often called "bad cholesterol" because high levels can lead to plaque buildup in arteries and cause heart disease. LDL cholesterol is calculated using the Friedewald equation: LDL = Total Cholesterol - HDL - (Triglycerides/5).

Normal ranges:
- Optimal: Less than 100 mg/dL (2.6 mmol/L)
- Near optimal: 100-129 mg/dL (2.6-3.3 mmol/L)
- Borderline high: 130-159 mg/dL (3.4-4.1 mmol/L)
- High: 160-189 mg/dL (4.1-4.9 mmol/L)
- Very high: 190 mg/dL (4.9 mmol/L) and above

### High-Density Lipoprotein (HDL) Cholesterol
HDL cholesterol is known as "good cholesterol" because it carries cholesterol from other parts of the body back to the liver, which removes it from the body.

Normal ranges:
- Men: 40 mg/dL (1.0 mmol/L) or higher
- Women: 50 mg/dL (1.3 mmol/L) or higher
- Protective level for both: 60 mg/dL (1.6 mmol/L) or higher

### Triglycerides
Triglycerides are a type of fat found in the blood. High triglyceride levels combined with high LDL or low HDL cholesterol can increase the risk of heart attack and stroke.

Normal ranges:
- Normal: Less than 150 mg/dL (1.7 mmol/L)
- Borderline high: 150-199 mg/dL (1.7-2.2 mmol/L)
- High: 200-499 mg/dL (2.3-5.6 mmol/L)
- Very high: 500 mg/dL (5.7 mmol/L) or higher

### Total Cholesterol
Total cholesterol is the overall amount of cholesterol in the blood, including LDL and HDL cholesterol.

Normal ranges:
- Desirable: Less than 200 mg/dL (5.2 mmol/L)
- Borderline high: 200-239 mg/dL (5.2-6.2 mmol/L)
- High: 240 mg/dL (6.2 mmol/L) and above

## C-Reactive Protein (CRP) and High-Sensitivity CRP (hs-CRP)
C-reactive protein is produced by the liver in response to inflammation. High-sensitivity CRP detects lower levels of CRP and is used to assess cardiovascular disease risk.

hs-CRP normal ranges:
- Low risk: Less than 1.0 mg/L
- Average risk: 1.0-3.0 mg/L
- High risk: Greater than 3.0 mg/L

hs-CRP levels above 3.0 mg/L indicate increased risk of cardiovascular disease. Combined with other risk factors, hs-CRP helps predict heart attack and stroke risk. Elevated hs-CRP may indicate systemic inflammation that affects arterial health.

## Cardiovascular Risk Assessment

### Framingham Risk Score
The Framingham Risk Score estimates the 10-year cardiovascular disease risk based on age, gender, total cholesterol, HDL cholesterol, blood pressure, diabetes, and smoking status.

### ACC/AHA Risk Calculator
Uses additional factors including race, treatment for hypertension, aspirin use, and family history.

Risk categories:
- Low risk: <5% 10-year risk
- Intermediate risk: 5-20% 10-year risk
- High risk: >20% 10-year risk

## Heart Disease Prevention Guidelines

Lifestyle modifications:
1. Diet: Mediterranean diet, low in saturated fat, high in fiber
2. Exercise: At least 150 minutes of moderate-intensity aerobic activity per week
3. Weight management: Maintain BMI between 18.5-24.9
4. Smoking cessation: Complete tobacco avoidance
5. Alcohol: Moderate consumption (1 drink/day for women, 2 for men)

Medication guidelines:
1. Statins: For LDL >190 mg/dL or high cardiovascular risk
2. ACE inhibitors/ARBs: For hypertension or heart failure
3. Aspirin: For secondary prevention in established cardiovascular disease
4. Beta-blockers: For heart failure or post-myocardial infarction

## American Heart Association Guidelines 2024

Blood pressure targets:
- Normal: <120/80 mmHg
- Elevated: 120-129/<80 mmHg
- Stage 1 hypertension: 130-139/80-89 mmHg
- Stage 2 hypertension: 140/90 mmHg or higher

Cholesterol management:
- Primary prevention: Statin therapy for ASCVD risk of 7.5% or higher
- Secondary prevention: High-intensity statin therapy
- Target LDL: <70 mg/dL for very high risk patients
`

const corpusDiabetes = `
# Diabetes and Metabolic Health

## Understanding HbA1c (Glycated Hemoglobin)
HbA1c, also called glycated hemoglobin, measures the average blood glucose level over the past 2-3 months. It shows the percentage of hemoglobin proteins in the blood that have glucose attached to them.

Normal ranges:
- Normal: Less than 5.7% (39 mmol/mol)
- Prediabetes: 5.7-6.4% (39-47 mmol/mol)
- Diabetes: 6.5% (48 mmol/mol) or higher
- Diabetes management target: Less than 7% (53 mmol/mol) for most adults

Clinical significance:
- Each 1% increase in HbA1c represents approximately 28-30 mg/dL increase in average blood glucose
- HbA1c of 7% correlates to an average blood glucose of about 154 mg/dL
- Lower HbA1c reduces the risk of diabetes complications

Relationship between HbA1c and average blood glucose:
- 5% HbA1c = 97 mg/dL average glucose
- 6% HbA1c = 126 mg/dL average glucose
- 7% HbA1c = 154 mg/dL average glucose
- 8% HbA1c = 183 mg/dL average glucose
- 9% HbA1c = 212 mg/dL average glucose

## Diabetes Risk Factors and Prevention

Type 2 diabetes risk factors:
1. Age 45 years or older
2. Overweight (BMI 25 or higher) or obesity
3. Family history: parent or sibling with diabetes
4. Physical inactivity: less than 3 times per week
5. Race/ethnicity: African American, Hispanic, Native American, Asian American
6. Previous gestational diabetes during pregnancy
7. Polycystic ovary syndrome (PCOS)
8. High blood pressure: 140/90 mmHg or higher
9. Abnormal cholesterol: HDL <35 mg/dL or triglycerides >250 mg/dL

## American Diabetes Association 2024 Guidelines

Screening recommendations:
- Adults 35 years and older: screen every 3 years
- Adults with risk factors: screen earlier and more frequently
- Pregnant women: screen for gestational diabetes at 24-28 weeks

Diagnostic criteria:
- Fasting glucose 126 mg/dL (7.0 mmol/L) or higher
- 2-hour glucose 200 mg/dL (11.1 mmol/L) or higher during OGTT
- HbA1c 6.5% (48 mmol/mol) or higher
- Random glucose 200 mg/dL (11.1 mmol/L) or higher with symptoms

Management targets:
- HbA1c: <7% for most adults, <6.5% if achieved safely
- Blood pressure: <130/80 mmHg
- LDL cholesterol: <100 mg/dL (<70 mg/dL if cardiovascular disease)

## Metabolic Syndrome

Definition (3 or more of the following):
1. Waist circumference: >40 inches (men), >35 inches (women)
2. Triglycerides: 150 mg/dL or higher
3. HDL cholesterol: <40 mg/dL (men), <50 mg/dL (women)
4. Blood pressure: 130/85 mmHg or higher
5. Fasting glucose: 100 mg/dL or higher

Health implications:
- 2x increased risk of cardiovascular disease
- 5x increased risk of type 2 diabetes
- Increased risk of stroke and kidney disease
`

const corpusLaboratory = `
# Clinical Laboratory Values and Interpretation

## Complete Blood Count (CBC)

Red blood cell parameters:
- Hemoglobin: Men 14-18 g/dL, Women 12-16 g/dL
- Hematocrit: Men 42-52%, Women 37-47%
- Red blood cell count: Men 4.7-6.1 million cells/uL, Women 4.2-5.4 million cells/uL
- Mean corpuscular volume (MCV): 80-100 fL

White blood cell parameters:
- Total WBC count: 4,500-11,000 cells/uL
- Neutrophils: 1,800-7,800 cells/uL (40-70%)
- Lymphocytes: 1,000-4,000 cells/uL (20-40%)
- Monocytes: 200-1,000 cells/uL (2-8%)
- Eosinophils: 15-500 cells/uL (1-4%)
- Basophils: 0-200 cells/uL (0.5-1%)

Platelet parameters:
- Platelet count: 150,000-450,000 cells/uL
- Mean platelet volume (MPV): 7.5-11.5 fL

## Comprehensive Metabolic Panel (CMP)

Glucose and diabetes markers:
- Fasting glucose: 70-100 mg/dL
- Random glucose: <140 mg/dL
- HbA1c: <5.7% (normal), 5.7-6.4% (prediabetes), 6.5% or higher (diabetes)

Kidney function:
- Blood urea nitrogen (BUN): 7-20 mg/dL
- Creatinine: Men 0.74-1.35 mg/dL, Women 0.59-1.04 mg/dL
- eGFR: >60 mL/min/1.73m2 (normal kidney function)
- BUN/creatinine ratio: 10:1-20:1

Liver function:
- ALT (alanine aminotransferase): Men <41 U/L, Women <33 U/L
- AST (aspartate aminotransferase): Men <40 U/L, Women <32 U/L
- Total bilirubin: 0.3-1.2 mg/dL
- Alkaline phosphatase: 44-147 U/L

Electrolytes:
- Sodium: 136-144 mmol/L
- Potassium: 3.5-5.0 mmol/L
- Chloride: 98-107 mmol/L
- CO2: 22-28 mmol/L

## Cardiac Biomarkers

Acute coronary syndrome:
- Troponin I: <0.04 ng/mL (normal), >0.4 ng/mL (myocardial infarction)
- Troponin T: <0.01 ng/mL (normal), >0.1 ng/mL (myocardial infarction)
- CK-MB: 0-6.3 ng/mL (normal), >6.3 ng/mL (suggestive of MI)

Heart failure:
- BNP (B-type natriuretic peptide): <100 pg/mL (normal), >400 pg/mL (heart failure)
- NT-proBNP: <125 pg/mL (normal), >300 pg/mL (heart failure)

## Thyroid Function Tests

Primary thyroid hormones:
- TSH (thyroid stimulating hormone): 0.27-4.20 mIU/L
- Free T4 (thyroxine): 12-22 pmol/L
- Free T3 (triiodothyronine): 3.1-6.8 pmol/L

Thyroid antibodies:
- Anti-TPO: <34 IU/mL
- Anti-thyroglobulin: <115 IU/mL
- TSI (thyroid stimulating immunoglobulin): <1.3 TSI index

## Inflammatory Markers

Acute phase reactants:
- ESR (erythrocyte sedimentation rate): Men <15 mm/hr, Women <20 mm/hr
- CRP (C-reactive protein): <3.0 mg/L
- hs-CRP (high-sensitivity CRP): <1.0 mg/L (low cardiovascular risk)

Autoimmune markers:
- ANA (antinuclear antibodies): <1:80 (negative)
- Rheumatoid factor: <14 IU/mL
- Anti-CCP: <20 units (negative)
`

const corpusTreatment = `
# Treatment Guidelines and Medication Management

## Cardiovascular Disease Treatment

### Statin Therapy Guidelines (ACC/AHA 2018)

High-intensity statins:
- Atorvastatin 40-80 mg daily
- Rosuvastatin 20-40 mg daily
- Simvastatin 80 mg daily (avoid due to drug interactions)

Moderate-intensity statins:
- Atorvastatin 10-20 mg daily
- Rosuvastatin 5-10 mg daily
- Simvastatin 20-40 mg daily
- Pravastatin 40-80 mg daily

Indications for statin therapy:
1. ASCVD (atherosclerotic cardiovascular disease)
2. LDL 190 mg/dL or higher
3. Diabetes mellitus (age 40-75) with LDL 70-189 mg/dL
4. Primary prevention with 10-year ASCVD risk of 7.5% or higher

### Hypertension Management (AHA 2017)

First-line agents:
- ACE inhibitors: Lisinopril, Enalapril, Ramipril
- ARBs: Losartan, Valsartan, Irbesartan
- Calcium channel blockers: Amlodipine, Nifedipine
- Thiazide diuretics: Hydrochlorothiazide, Chlorthalidone

Blood pressure targets:
- General population: <130/80 mmHg
- Diabetes or CKD: <130/80 mmHg
- Age 65 and older: <130/80 mmHg (if tolerated)

### Heart Failure Treatment (AHA/ACC 2022)

Stage A (at risk): lifestyle modifications, risk factor management.
Stage B (structural disease, no symptoms): ACE inhibitor or ARB; beta-blocker if prior MI.
Stage C (symptomatic heart failure): ACE inhibitor/ARB or ARNI; beta-blocker (carvedilol, metoprolol, bisoprolol); diuretics for fluid retention; aldosterone receptor antagonist.
Stage D (refractory symptoms): consider advanced therapies, heart transplant evaluation, mechanical circulatory support.

## Diabetes Management

### Type 2 Diabetes Treatment Algorithm (ADA 2024)

First-line therapy:
- Metformin 500-2000 mg daily (unless contraindicated)
- Lifestyle modifications (diet, exercise, weight management)

Second-line therapy (if HbA1c >7% after 3 months):
- SGLT2 inhibitors: Empagliflozin, Dapagliflozin
- GLP-1 agonists: Semaglutide, Liraglutide, Dulaglutide
- DPP-4 inhibitors: Sitagliptin, Linagliptin
- Sulfonylureas: Glipizide, Glyburide (if cost is a concern)

Injectable therapies:
- GLP-1 receptor agonists (preferred if obesity or CVD)
- Insulin (if HbA1c >10% or glucose >300 mg/dL)

Glucose monitoring:
- HbA1c every 3-6 months
- Self-monitoring blood glucose for insulin users
- Continuous glucose monitoring when appropriate

Diabetes complications screening:
- Diabetic retinopathy: annual dilated eye exam
- Diabetic nephropathy: annual urine microalbumin, eGFR
- Diabetic neuropathy: annual foot exam, monofilament testing
- Cardiovascular disease: lipid panel, blood pressure monitoring

## Lipid Management

Primary prevention:
- Statin therapy if 10-year ASCVD risk is 7.5% or higher
- Consider if risk 5-7.5% with risk enhancers
- Target LDL <100 mg/dL

Secondary prevention:
- High-intensity statin therapy
- Target LDL <70 mg/dL (<50 mg/dL for very high risk)
- Add ezetimibe if not at goal
- Consider PCSK9 inhibitors for very high risk

Hypertriglyceridemia:
- Lifestyle modifications first
- If triglycerides >500 mg/dL: fibrates or high-dose omega-3
- If triglycerides 200-499 mg/dL: consider icosapent ethyl

## Medication Interactions and Contraindications

Statin interactions:
- Avoid with: Gemfibrozil, cyclosporine, HIV protease inhibitors
- Use caution with: Amiodarone, verapamil, diltiazem
- Monitor: CK levels, liver enzymes

ACE inhibitor/ARB contraindications:
- Absolute: pregnancy, bilateral renal artery stenosis, hyperkalemia
- Relative: eGFR <30 mL/min/1.73m2, potassium >5.0 mEq/L

Metformin contraindications:
- Absolute: eGFR <30 mL/min/1.73m2, acute heart failure
- Relative: alcohol abuse, liver disease, chronic hypoxemia
`

const corpusDiagnosticCriteria = `
# Cardiac Diagnostic Criteria and Clinical Guidelines

## Heart Failure with Preserved Ejection Fraction (HFpEF) Diagnosis

### HFpEF Diagnostic Criteria (ESC/AHA 2024 Guidelines)
HFpEF is diagnosed when patients have:
1. Clinical symptoms and signs of heart failure
2. Preserved ejection fraction (50% or higher)
3. Evidence of diastolic dysfunction

### HFpEF Risk Scoring
HFpEF-Score components:
- Age 65 years or older (1 point)
- Obesity (BMI 30 or higher) (2 points)
- Atrial fibrillation (3 points)
- Pulmonary artery systolic pressure 35 mmHg or higher (1 point)
- Echocardiographic diastolic dysfunction grade II or higher (1 point)
- Hypertension (1 point)

Score interpretation:
- 0-1 points: low probability of HFpEF
- 2-5 points: intermediate probability of HFpEF
- 6-9 points: high probability of HFpEF

### Clinical Significance of HFpEF Score = 4
A HFpEF score of 4 indicates intermediate probability of heart failure with preserved ejection fraction. This requires:
- Further evaluation with comprehensive echocardiography
- Exercise testing or stress testing
- BNP/NT-proBNP measurement
- Assessment for underlying causes

## Diastolic Dysfunction and Impaired Relaxation

### Diastolic Dysfunction Grading
Grade I (mild) - impaired relaxation:
- E/A ratio <0.8
- Septal e' <7 cm/s or lateral e' <10 cm/s
- LA volume index normal (<34 mL/m2)
- Clinical significance: early stage of diastolic dysfunction, often asymptomatic

Grade II (moderate) - pseudonormal:
- E/A ratio 0.8-2.0
- Average E/e' 9-14
- LA volume index 34-48 mL/m2

Grade III (severe) - restrictive:
- E/A ratio 2.0 or higher
- Average E/e' 15 or higher
- LA volume index >48 mL/m2

### Clinical Implications of Mild Impaired Relaxation (DDIM)
Mild diastolic dysfunction suggests:
- Early heart disease, often the first sign of cardiac abnormality
- Increased risk of developing symptomatic heart failure
- Associated conditions: hypertension, diabetes, obesity
- Need for risk factor modification

## Aortic Valve Stenosis (AS) Diagnostic Criteria

Severity classification:
Mild AS: aortic jet velocity 2.6-2.9 m/s, mean gradient 20-39 mmHg, aortic valve area >1.5 cm2.
Moderate AS: aortic jet velocity 3.0-3.9 m/s, mean gradient 40-64 mmHg, aortic valve area 1.0-1.5 cm2.
Severe AS: aortic jet velocity 4.0 m/s or higher, mean gradient 65 mmHg or higher, aortic valve area <1.0 cm2.

When AS is marked as abnormal:
- Requires quantitative assessment via echocardiography
- Monitor for symptoms: chest pain, dyspnea, syncope
- Progressive condition that worsens over time
- Potential need for intervention depending on severity

## Myocardial Perfusion and Performance Abnormalities

Abnormal systolic performance index (SPI) indicates:
- Reduced contractility of the heart muscle
- Possible coronary artery disease
- Need for stress testing or coronary imaging
- Risk stratification for cardiovascular events

Abnormal myocardial perfusion index (MPI) suggests:
- Reduced blood flow to heart muscle
- Possible coronary artery disease
- Ischemia during stress or at rest
- Indication for coronary angiography if clinically indicated

## Diagnostic Recommendations Based on Combined Findings

For patients with HFpEF score = 4 plus mild DDIM plus abnormal AS:

Immediate actions:
1. Comprehensive echocardiography with Doppler studies
2. BNP or NT-proBNP measurement
3. Exercise stress test or cardiopulmonary exercise testing
4. Assessment for coronary artery disease

Follow-up recommendations:
1. Repeat echocardiography in 6-12 months
2. Optimize cardiovascular risk factors
3. Consider cardiology consultation
4. Monitor for symptom development

Modifiable risk factors to address:
- Obesity (BMI 30 or higher): weight reduction goal 5-10%
- Hypertension: target <130/80 mmHg
- Diabetes: HbA1c <7%
- Dyslipidemia: LDL <100 mg/dL (or <70 if high risk)

## Clinical Guidelines for Patient Counseling

Reassuring points:
- These are early findings that can be managed
- Lifestyle modifications can significantly improve outcomes
- Regular monitoring can prevent progression
- Many patients with these findings live normal lives with proper management

Action items for the patient:
1. Lifestyle modifications: diet, exercise, weight management
2. Regular medical follow-up with primary care and cardiology
3. Symptom awareness: report chest pain, shortness of breath, fatigue
4. Medication compliance if prescribed
5. Risk factor optimization: blood pressure, diabetes, cholesterol control

With proper management:
- Excellent long-term prognosis for mild findings
- Prevention of progression to symptomatic heart failure
- Maintained quality of life with appropriate care
- Low risk of immediate cardiovascular events
`
