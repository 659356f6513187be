package report

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []ContentType
	}{
		{
			name: "patient header",
			text: "Paciente: Maria da Silva Data de Nascimento: 12/03/1985",
			want: []ContentType{TypePatientInfo},
		},
		{
			name: "bacterial taxonomy",
			text: "Bacteria Firmicutes Clostridia Clostridiales Lachnospiraceae Blautia obeum 4889 17,50%",
			want: []ContentType{TypeBacterialTaxonomy},
		},
		{
			name: "multi-label page",
			text: "Calprotectina: 45,00 µg/g Índice de Disbiose: 2,4",
			want: []ContentType{TypeBiomarkers, TypeMicrobiotaOverview},
		},
		{
			name: "fungal",
			text: "Análise de Fungos Candida albicans 1200 3,20%",
			want: []ContentType{TypeFungalAnalysis},
		},
		{
			name: "nothing recognized",
			text: "texto qualquer sem conteúdo de laudo",
			want: []ContentType{TypeUnknown},
		},
		{
			name: "empty page",
			text: "",
			want: []ContentType{TypeUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Classify() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Classify() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
