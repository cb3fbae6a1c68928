package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"defect-dataset-splitter/internal/dataset"
)

// Descriptor は出力データセットの説明 (dataset.yaml)
type Descriptor struct {
	RunID      string            `yaml:"run_id"`
	Source     string            `yaml:"source"`
	Seed       int64             `yaml:"seed"`
	Categories []string          `yaml:"categories"`
	Classes    []string          `yaml:"classes"`
	Ratios     DescriptorRatios  `yaml:"ratios"`
	Splits     []DescriptorSplit `yaml:"splits"`
}

// DescriptorRatios は分割に使った比率
type DescriptorRatios struct {
	GoodVal        float64 `yaml:"good_val"`
	DefectiveTrain float64 `yaml:"defective_train"`
	DefectiveVal   float64 `yaml:"defective_val"`
	DefectiveTest  float64 `yaml:"defective_test"`
}

// DescriptorSplit は1つの分割の出力先と件数
type DescriptorSplit struct {
	Name   string         `yaml:"name"`
	Path   string         `yaml:"path"`
	Counts map[string]int `yaml:"counts"`
}

// NewDescriptor は集計結果から Descriptor を組み立てる
func NewDescriptor(summary *Summary, source string, seed int64, categories []string, ratios DescriptorRatios) *Descriptor {
	d := &Descriptor{
		RunID:      summary.RunID,
		Source:     source,
		Seed:       seed,
		Categories: categories,
		Ratios:     ratios,
	}
	for _, class := range dataset.Classes {
		d.Classes = append(d.Classes, string(class))
	}
	for _, split := range dataset.Splits {
		s := DescriptorSplit{Name: string(split), Path: string(split), Counts: map[string]int{}}
		for _, class := range dataset.Classes {
			s.Counts[string(class)] = summary.Count(split, class)
		}
		d.Splits = append(d.Splits, s)
	}
	return d
}

// WriteDescriptor は Descriptor を YAML として path に書き出す
func WriteDescriptor(path string, d *Descriptor) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("dataset.yamlの生成に失敗: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("dataset.yamlの書き込みに失敗: %w", err)
	}
	return nil
}

// ReadDescriptor は path の dataset.yaml を読み込む
func ReadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("dataset.yamlの解析に失敗: %w", err)
	}
	return &d, nil
}
