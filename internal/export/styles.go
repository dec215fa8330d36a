package export

import (
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

func titleProps() props.Text {
	return props.Text{Top: 3, Size: 16, Style: fontstyle.Bold, Align: align.Center}
}

func subtitleProps() props.Text {
	return props.Text{Size: 10, Align: align.Center}
}

func headerText() props.Text {
	return props.Text{Size: 10, Style: fontstyle.Bold}
}

func bodyText() props.Text {
	return props.Text{Size: 10}
}

func headerCell() props.Text {
	return props.Text{Size: 9, Style: fontstyle.Bold}
}

func headerCellRight() props.Text {
	return props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
}

func bodyCell() props.Text {
	return props.Text{Size: 9}
}

func bodyCellRight() props.Text {
	return props.Text{Size: 9, Align: align.Right}
}
