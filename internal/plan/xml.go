package plan

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// xmlTaskTree mirrors the wire format the planner prompt asks the model
// for:
//
//	<task_tree>
//	  <root_task><id>root</id><name>..</name>...</root_task>
//	  <tasks>
//	    <task>
//	      <id>task_1</id>
//	      ...
//	      <dependencies>task_0,task_2</dependencies>
//	      <parameters><symbol>0700.HK</symbol></parameters>
//	    </task>
//	  </tasks>
//	</task_tree>
type xmlTaskTree struct {
	XMLName xml.Name  `xml:"task_tree"`
	Root    xmlTask   `xml:"root_task"`
	Tasks   []xmlTask `xml:"tasks>task"`
}

type xmlTask struct {
	ID           string    `xml:"id"`
	Name         string    `xml:"name"`
	Description  string    `xml:"description"`
	ExecutorType string    `xml:"executor_type"`
	Dependencies string    `xml:"dependencies"`
	Parameters   xmlParams `xml:"parameters"`
}

// xmlParams collects arbitrary child elements as key/value pairs.
type xmlParams struct {
	Values map[string]string
}

func (p *xmlParams) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.Values = make(map[string]string)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var v string
			if err := d.DecodeElement(&v, &t); err != nil {
				return err
			}
			p.Values[t.Name.Local] = strings.TrimSpace(v)
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// ParseTree parses a planner response into a TaskTree. The response may
// wrap the XML in prose; everything outside <task_tree>...</task_tree>
// is ignored. The query becomes the root task description.
func ParseTree(raw, query string) (*TaskTree, error) {
	doc, err := extractXML(raw)
	if err != nil {
		return nil, err
	}

	var wire xmlTaskTree
	if err := xml.Unmarshal([]byte(doc), &wire); err != nil {
		return nil, fmt.Errorf("malformed task tree: %w", err)
	}

	root := Task{
		ID:           "root",
		Name:         "Investment Analysis",
		Description:  query,
		ExecutorType: "coordinator",
		Status:       StatusPending,
	}
	if wire.Root.Name != "" {
		root.Name = wire.Root.Name
	}

	tree := &TaskTree{Root: root, Tasks: []Task{root}}

	for i, wt := range wire.Tasks {
		task := Task{
			ID:           strings.TrimSpace(wt.ID),
			Name:         strings.TrimSpace(wt.Name),
			Description:  strings.TrimSpace(wt.Description),
			ExecutorType: strings.TrimSpace(wt.ExecutorType),
			Parameters:   wt.Parameters.Values,
			Status:       StatusPending,
		}
		if task.ID == "" {
			task.ID = fmt.Sprintf("task_%d", i+1)
		}
		if task.Name == "" {
			task.Name = task.ID
		}
		if task.ExecutorType == "" {
			task.ExecutorType = "data_collector"
		}
		for _, dep := range strings.Split(wt.Dependencies, ",") {
			if dep = strings.TrimSpace(dep); dep != "" {
				task.Dependencies = append(task.Dependencies, dep)
			}
		}
		tree.Tasks = append(tree.Tasks, task)
	}

	if len(tree.Tasks) == 1 {
		return nil, fmt.Errorf("task tree contains no tasks")
	}
	return tree, nil
}

func extractXML(raw string) (string, error) {
	start := strings.Index(raw, "<task_tree>")
	if start == -1 {
		return "", fmt.Errorf("no <task_tree> element in planner response")
	}
	end := strings.Index(raw[start:], "</task_tree>")
	if end == -1 {
		return "", fmt.Errorf("unterminated <task_tree> element")
	}
	return raw[start : start+end+len("</task_tree>")], nil
}
