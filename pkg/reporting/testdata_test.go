package reporting

func sampleRecord(name string) CandidateRecord {
	return CandidateRecord{
		Name: name,
		ID:   "123.456.789-09",
		Attributes: Attributes{
			{Key: "Cargo", Value: "Analista de Sistemas"},
			{Key: "Empresa", Value: "ACME Ltda"},
		},
		Results: []CheckResult{
			{ColumnAgency: "Polícia Federal", ColumnResult: "Nada consta", ColumnStatus: "Concluído", ColumnDate: "01/10/2026"},
			{ColumnAgency: "TJ-SP", ColumnResult: "Nada consta", ColumnStatus: "Concluído", ColumnDate: "02/10/2026"},
			{ColumnAgency: "TRF-3", ColumnResult: "Nada consta", ColumnStatus: "Concluído", ColumnDate: "03/10/2026"},
			{ColumnAgency: "Polícia Civil", ColumnResult: "Nada consta", ColumnStatus: "Concluído", ColumnDate: "04/10/2026"},
		},
	}
}
